package dailyplans

import (
	"context"
	"testing"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/fdg312/nutrition-hub/internal/storage/memory"
	"github.com/google/uuid"
)

// mockMeals is an in-memory MealSource.
type mockMeals struct {
	meals map[uuid.UUID]*storage.Meal
}

func newMockMeals() *mockMeals {
	return &mockMeals{meals: make(map[uuid.UUID]*storage.Meal)}
}

func (m *mockMeals) add(n float64) uuid.UUID {
	id := uuid.New()
	m.meals[id] = &storage.Meal{
		Base:        storage.Base{ID: id, Name: "meal"},
		TotalValues: nutrition.Values{Protein: n, Carb: n, Fat: n, Calories: n},
	}
	return id
}

func (m *mockMeals) active(id uuid.UUID) (*storage.Meal, bool) {
	meal, ok := m.meals[id]
	return meal, ok && !meal.IsDeleted
}

func (m *mockMeals) FindInvalidElement(ctx context.Context, ids []uuid.UUID) int {
	for i, id := range ids {
		if _, ok := m.active(id); !ok {
			return i
		}
	}
	return -1
}

func (m *mockMeals) FindAll(ctx context.Context, ids []uuid.UUID, notFound func(uuid.UUID) *apperr.Error) ([]*storage.Meal, error) {
	out := make([]*storage.Meal, len(ids))
	for i, id := range ids {
		meal, err := m.Find(ctx, id, notFound(id))
		if err != nil {
			return nil, err
		}
		out[i] = meal
	}
	return out, nil
}

func (m *mockMeals) Find(ctx context.Context, id uuid.UUID, notFound *apperr.Error) (*storage.Meal, error) {
	meal, ok := m.active(id)
	if !ok {
		return nil, notFound
	}
	return meal.Clone(), nil
}

func (m *mockMeals) ValuesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error) {
	meal, ok := m.meals[id]
	if !ok {
		return nutrition.Values{}, false, nil
	}
	return meal.TotalValues, true, nil
}

func all(n float64) nutrition.Values {
	return nutrition.Values{Protein: n, Carb: n, Fat: n, Calories: n}
}

func newTestService(meals MealSource, rec *events.Recorder) *Service {
	opts := lifecycle.Options{}
	if rec != nil {
		opts.Events = rec
	}
	return NewService(memory.New().DailyPlans(), meals, opts)
}

func TestCreateAndAddMeal(t *testing.T) {
	ctx := context.Background()
	meals := newMockMeals()
	a, b := meals.add(500), meals.add(700)
	rec := &events.Recorder{}
	svc := newTestService(meals, rec)

	plan, err := svc.Create(ctx, CreateDailyPlanRequest{Name: "Monday", Meals: []uuid.UUID{a}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	plan, err = svc.AddMeal(ctx, plan.ID, b)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !plan.TotalValues.ApproxEqual(all(1200)) || len(plan.MealIDs) != 2 {
		t.Fatalf("unexpected plan: %+v", plan)
	}

	evts := rec.Events()
	if len(evts) != 2 || evts[1].RoutingKey() != "daily_plan.update" {
		t.Fatalf("unexpected events: %+v", evts)
	}
	if v, ok := evts[1].Totals.(nutrition.Values); !ok || !v.ApproxEqual(all(1200)) {
		t.Fatalf("expected totals in event, got %+v", evts[1].Totals)
	}
}

func TestAddMealErrors(t *testing.T) {
	ctx := context.Background()
	meals := newMockMeals()
	a, gone := meals.add(1), meals.add(2)
	meals.meals[gone].IsDeleted = true
	svc := newTestService(meals, nil)
	plan, _ := svc.Create(ctx, CreateDailyPlanRequest{Name: "Tuesday", Meals: []uuid.UUID{a}})

	tests := []struct {
		name     string
		planID   uuid.UUID
		mealID   uuid.UUID
		wantKind apperr.Kind
	}{
		{"duplicate", plan.ID, a, apperr.KindMealAlreadyExists},
		{"deleted meal", plan.ID, gone, apperr.KindMealNotFound},
		{"unknown meal", plan.ID, uuid.New(), apperr.KindMealNotFound},
		{"unknown plan", uuid.New(), a, apperr.KindDailyPlanNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddMeal(ctx, tt.planID, tt.mealID); !apperr.Is(err, tt.wantKind) {
				t.Fatalf("expected %s, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()
	meals := newMockMeals()
	a := meals.add(1)
	svc := newTestService(meals, nil)

	if _, err := svc.Create(ctx, CreateDailyPlanRequest{Name: "x", Meals: []uuid.UUID{a, a}}); !apperr.Is(err, apperr.KindMealAlreadyExists) {
		t.Fatalf("expected MealAlreadyExists, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateDailyPlanRequest{Name: "x", Meals: []uuid.UUID{a, uuid.New()}}); !apperr.Is(err, apperr.KindMealNotFound) {
		t.Fatalf("expected MealNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateDailyPlanRequest{Meals: []uuid.UUID{a}}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRemoveMeal(t *testing.T) {
	ctx := context.Background()
	meals := newMockMeals()
	a, b, c := meals.add(1), meals.add(2), meals.add(4)
	svc := newTestService(meals, nil)
	plan, _ := svc.Create(ctx, CreateDailyPlanRequest{Name: "Wednesday", Meals: []uuid.UUID{a, b}})

	if _, err := svc.RemoveMeal(ctx, plan.ID, c); !apperr.Is(err, apperr.KindMealNotFound) {
		t.Fatalf("expected MealNotFound for meal not in plan, got %v", err)
	}

	meals.meals[b].IsDeleted = true
	plan, err := svc.RemoveMeal(ctx, plan.ID, b)
	if err != nil {
		t.Fatalf("remove deleted meal: %v", err)
	}
	if !plan.TotalValues.ApproxEqual(all(1)) || len(plan.MealIDs) != 1 {
		t.Fatalf("unexpected plan: %+v", plan)
	}

	plan, err = svc.RemoveMeal(ctx, plan.ID, a)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !plan.TotalValues.ApproxEqual(nutrition.Values{}) || len(plan.MealIDs) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

func TestDeleteIsIdempotentlyRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockMeals(), nil)
	plan, _ := svc.Create(ctx, CreateDailyPlanRequest{Name: "Empty"})

	if _, err := svc.DeleteByID(ctx, plan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.DeleteByID(ctx, plan.ID); !apperr.Is(err, apperr.KindInstanceNotFound) {
		t.Fatalf("expected InstanceNotFound, got %v", err)
	}
	if _, err := svc.AddMeal(ctx, plan.ID, uuid.New()); !apperr.Is(err, apperr.KindDailyPlanNotFound) {
		t.Fatalf("expected DailyPlanNotFound on deleted plan, got %v", err)
	}
	deleted, _ := svc.GetAllDeleted(ctx)
	if len(deleted) != 1 {
		t.Fatalf("expected one deleted plan, got %d", len(deleted))
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	meals := newMockMeals()
	ids := []uuid.UUID{meals.add(512.5), meals.add(0.3), meals.add(1234), meals.add(77.7)}
	svc := newTestService(meals, nil)

	created, err := svc.Create(ctx, CreateDailyPlanRequest{Name: "Week day", Meals: ids})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.TotalValues.ApproxEqual(all(512.5 + 0.3 + 1234 + 77.7)) {
		t.Fatalf("unexpected totals %+v", created.TotalValues)
	}

	for _, order := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}} {
		seq, err := svc.Create(ctx, CreateDailyPlanRequest{Name: "Week day"})
		if err != nil {
			t.Fatalf("create empty: %v", err)
		}
		for _, i := range order {
			if seq, err = svc.AddMeal(ctx, seq.ID, ids[i]); err != nil {
				t.Fatalf("order %v: add meal: %v", order, err)
			}
		}

		if !seq.TotalValues.ApproxEqual(created.TotalValues) {
			t.Fatalf("order %v: %+v != %+v", order, seq.TotalValues, created.TotalValues)
		}
		if len(seq.MealIDs) != len(ids) {
			t.Fatalf("order %v: expected %d meals, got %v", order, len(ids), seq.MealIDs)
		}
		for _, id := range ids {
			if !lifecycle.Contains(seq.MealIDs, id) {
				t.Fatalf("order %v: meal %s missing from %v", order, id, seq.MealIDs)
			}
		}
	}
}
