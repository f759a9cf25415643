package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/fdg312/nutrition-hub/internal/storage/memory"
	"github.com/google/uuid"
)

// conflictStore fails the first n saves of existing documents with a version conflict.
type conflictStore struct {
	storage.Store[storage.Meal]
	conflicts atomic.Int32
}

func (c *conflictStore) Save(ctx context.Context, doc *storage.Meal) error {
	if doc.ID != uuid.Nil && c.conflicts.Load() > 0 {
		c.conflicts.Add(-1)
		return storage.ErrVersionConflict
	}
	return c.Store.Save(ctx, doc)
}

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("connection refused")

func (brokenStore) FindOne(ctx context.Context, f storage.Filter) (*storage.Meal, error) {
	return nil, errBroken
}
func (brokenStore) Find(ctx context.Context, f storage.Filter) ([]storage.Meal, error) {
	return nil, errBroken
}
func (brokenStore) Exists(ctx context.Context, f storage.Filter) (bool, error) {
	return false, errBroken
}
func (brokenStore) Save(ctx context.Context, doc *storage.Meal) error {
	return errBroken
}

func newMealService(store storage.Store[storage.Meal], rec *events.Recorder) *Service[storage.Meal, *storage.Meal] {
	opts := Options{}
	if rec != nil {
		opts.Events = rec
	}
	return New[storage.Meal]("meal", "Meal", store, opts)
}

func seedMeals(t *testing.T, svc *Service[storage.Meal, *storage.Meal], names ...string) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		m, err := svc.Create(context.Background(), &storage.Meal{Base: storage.Base{Name: name}})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids[i] = m.ID
	}
	return ids
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	rec := &events.Recorder{}
	svc := newMealService(memory.New().Meals(), rec)
	breakfast, err := svc.Create(ctx, &storage.Meal{
		Base:        storage.Base{Name: "Breakfast"},
		FoodIDs:     []uuid.UUID{uuid.New(), uuid.New()},
		TotalValues: nutrition.Values{Protein: 21, Carb: 64, Fat: 9.5, Calories: 430},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := *breakfast.Clone()
	ids := append([]uuid.UUID{breakfast.ID}, seedMeals(t, svc, "Dinner")...)

	if _, err := svc.DeleteByID(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if svc.Exists(ctx, ids[0]) {
		t.Fatal("deleted meal must not exist")
	}
	if _, err := svc.GetByID(ctx, ids[0]); !apperr.Is(err, apperr.KindInstanceNotFound) {
		t.Fatalf("expected InstanceNotFound, got %v", err)
	}

	active, _ := svc.GetAll(ctx)
	deleted, _ := svc.GetAllDeleted(ctx)
	if len(active) != 1 || len(deleted) != 1 || deleted[0].ID != ids[0] {
		t.Fatalf("unexpected partition: active=%d deleted=%d", len(active), len(deleted))
	}

	// second delete is rejected and changes nothing
	if _, err := svc.DeleteByID(ctx, ids[0]); !apperr.Is(err, apperr.KindInstanceNotFound) {
		t.Fatalf("expected InstanceNotFound on double delete, got %v", err)
	}

	restored, err := svc.RestoreByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.IsDeleted {
		t.Fatal("restored meal still flagged deleted")
	}
	if restored.Name != before.Name || restored.TotalValues != before.TotalValues {
		t.Fatalf("restore changed the meal: got %s %+v, want %s %+v", restored.Name, restored.TotalValues, before.Name, before.TotalValues)
	}
	if len(restored.FoodIDs) != len(before.FoodIDs) || restored.FoodIDs[0] != before.FoodIDs[0] || restored.FoodIDs[1] != before.FoodIDs[1] {
		t.Fatalf("restore changed food ids: %v, want %v", restored.FoodIDs, before.FoodIDs)
	}
	if !restored.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("restore changed createdAt: %v, want %v", restored.CreatedAt, before.CreatedAt)
	}
	if restored.Version != before.Version+2 {
		t.Fatalf("expected version %d after delete and restore, got %d", before.Version+2, restored.Version)
	}
	if _, err := svc.RestoreByID(ctx, ids[0]); !apperr.Is(err, apperr.KindInstanceNotFound) {
		t.Fatalf("expected InstanceNotFound restoring an active meal, got %v", err)
	}

	var ops []string
	for _, e := range rec.Events() {
		ops = append(ops, e.Op)
	}
	want := []string{events.OpCreate, events.OpCreate, events.OpDelete, events.OpRestore}
	if len(ops) != len(want) {
		t.Fatalf("expected events %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, ops)
		}
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc := newMealService(memory.New().Meals(), nil)
	_, err := svc.DeleteByID(context.Background(), uuid.New())

	e, ok := apperr.As(err)
	if !ok || e.Name != apperr.KindInstanceNotFound {
		t.Fatalf("expected InstanceNotFound, got %v", err)
	}
	if e.Message == "" {
		t.Fatal("expected message naming the entity")
	}
}

func TestFindInvalidElement(t *testing.T) {
	ctx := context.Background()
	svc := newMealService(memory.New().Meals(), nil)
	ids := seedMeals(t, svc, "a", "b", "c", "d")
	if _, err := svc.DeleteByID(ctx, ids[2]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	tests := []struct {
		name string
		ids  []uuid.UUID
		want int
	}{
		{"empty", nil, -1},
		{"all active", []uuid.UUID{ids[0], ids[1], ids[3]}, -1},
		{"deleted in the middle", []uuid.UUID{ids[0], ids[2], ids[1]}, 1},
		{"unknown first wins", []uuid.UUID{ids[0], uuid.New(), ids[2]}, 1},
		{"unknown last", []uuid.UUID{ids[3], ids[1], uuid.New()}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.FindInvalidElement(ctx, tt.ids); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStoreFailureReadsAsMissing(t *testing.T) {
	ctx := context.Background()
	svc := newMealService(brokenStore{}, nil)

	if svc.Exists(ctx, uuid.New()) {
		t.Fatal("expected false on store failure")
	}
	if got := svc.FindInvalidElement(ctx, []uuid.UUID{uuid.New()}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	_, err := svc.GetAll(ctx)
	if !apperr.Is(err, apperr.KindInternal) || !errors.Is(err, errBroken) {
		t.Fatalf("expected InternalError wrapping the cause, got %v", err)
	}
}

func TestUpdateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	store := &conflictStore{Store: memory.New().Meals()}
	svc := newMealService(store, nil)
	id := seedMeals(t, svc, "Lunch")[0]

	store.conflicts.Store(2)
	calls := 0
	got, err := svc.Update(ctx, id, apperr.New(apperr.KindMealNotFound, ""), func(m *storage.Meal) error {
		calls++
		m.Name = "Late lunch"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if got.Name != "Late lunch" || got.Version != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdateGivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()
	store := &conflictStore{Store: memory.New().Meals()}
	svc := newMealService(store, nil)
	id := seedMeals(t, svc, "Lunch")[0]

	store.conflicts.Store(10)
	_, err := svc.Update(ctx, id, apperr.New(apperr.KindMealNotFound, ""), func(m *storage.Meal) error {
		return nil
	})
	if !apperr.Is(err, apperr.KindConcurrentModification) {
		t.Fatalf("expected ConcurrentModification, got %v", err)
	}
}

func TestUpdateAbortsWithoutSaving(t *testing.T) {
	ctx := context.Background()
	svc := newMealService(memory.New().Meals(), nil)
	id := seedMeals(t, svc, "Lunch")[0]

	_, err := svc.Update(ctx, id, apperr.New(apperr.KindMealNotFound, ""), func(m *storage.Meal) error {
		m.Name = "changed"
		return apperr.New(apperr.KindFoodNotFound, "")
	})
	if !apperr.Is(err, apperr.KindFoodNotFound) {
		t.Fatalf("expected FoodNotFound, got %v", err)
	}

	m, _ := svc.GetByID(ctx, id)
	if m.Name != "Lunch" || m.Version != 1 {
		t.Fatalf("aborted update leaked: %+v", m)
	}

	_, err = svc.Update(ctx, uuid.New(), apperr.New(apperr.KindMealNotFound, ""), func(m *storage.Meal) error { return nil })
	if !apperr.Is(err, apperr.KindMealNotFound) {
		t.Fatalf("expected MealNotFound for unknown id, got %v", err)
	}
}

func TestFindAny(t *testing.T) {
	ctx := context.Background()
	svc := newMealService(memory.New().Meals(), nil)
	id := seedMeals(t, svc, "Supper")[0]
	if _, err := svc.DeleteByID(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	doc, ok, err := svc.FindAny(ctx, id)
	if err != nil || !ok || !doc.IsDeleted {
		t.Fatalf("expected deleted doc, got %+v ok=%v err=%v", doc, ok, err)
	}

	_, ok, err = svc.FindAny(ctx, uuid.New())
	if err != nil || ok {
		t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
	}
}

func TestFindAllReportsFirstMissingInOrder(t *testing.T) {
	ctx := context.Background()
	svc := newMealService(memory.New().Meals(), nil)
	ids := seedMeals(t, svc, "a", "b")
	missing1, missing2 := uuid.New(), uuid.New()

	notFound := func(id uuid.UUID) *apperr.Error {
		return apperr.New(apperr.KindMealNotFound, "Meal with id %s not found", id)
	}

	docs, err := svc.FindAll(ctx, ids, notFound)
	if err != nil || len(docs) != 2 || docs[1].Name != "b" {
		t.Fatalf("unexpected result: %v %v", docs, err)
	}

	_, err = svc.FindAll(ctx, []uuid.UUID{ids[0], missing1, missing2}, notFound)
	e, ok := apperr.As(err)
	if !ok || e.Name != apperr.KindMealNotFound || !strings.Contains(e.Message, missing1.String()) {
		t.Fatalf("expected MealNotFound naming %s, got %v", missing1, err)
	}
}
