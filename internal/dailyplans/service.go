package dailyplans

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// MealSource is the part of the meal service daily plans depend on.
type MealSource interface {
	FindInvalidElement(ctx context.Context, ids []uuid.UUID) int
	FindAll(ctx context.Context, ids []uuid.UUID, notFound func(uuid.UUID) *apperr.Error) ([]*storage.Meal, error)
	Find(ctx context.Context, id uuid.UUID, notFound *apperr.Error) (*storage.Meal, error)
	ValuesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error)
}

// Service maintains daily plans and the sum of their meals' totals.
type Service struct {
	*lifecycle.Service[storage.DailyPlan, *storage.DailyPlan]
	meals MealSource
}

// NewService creates a new daily plan service.
func NewService(store storage.Store[storage.DailyPlan], meals MealSource, opts lifecycle.Options) *Service {
	svc := lifecycle.New[storage.DailyPlan]("daily_plan", "Daily plan", store, opts).
		WithTotals(func(d *storage.DailyPlan) any { return d.TotalValues })
	return &Service{Service: svc, meals: meals}
}

// Create stores a daily plan with its initial meals.
func (s *Service) Create(ctx context.Context, req CreateDailyPlanRequest) (*storage.DailyPlan, error) {
	if err := lifecycle.CheckName(req.Name); err != nil {
		return nil, err
	}
	if id, dup := lifecycle.FirstDuplicate(req.Meals); dup {
		return nil, apperr.New(apperr.KindMealAlreadyExists, "Meal with id %s is listed more than once", id)
	}
	if idx := s.meals.FindInvalidElement(ctx, req.Meals); idx >= 0 {
		return nil, mealNotFound(req.Meals[idx])
	}
	meals, err := s.meals.FindAll(ctx, req.Meals, mealNotFound)
	if err != nil {
		return nil, err
	}

	var total nutrition.Values
	for _, m := range meals {
		total = total.Add(m.TotalValues)
	}

	return s.Service.Create(ctx, &storage.DailyPlan{
		Base:        storage.Base{Name: req.Name},
		MealIDs:     append([]uuid.UUID{}, req.Meals...),
		TotalValues: total,
	})
}

// AddMeal appends an active meal and adds its total values.
func (s *Service) AddMeal(ctx context.Context, planID, mealID uuid.UUID) (*storage.DailyPlan, error) {
	return s.Update(ctx, planID, planNotFound(planID), func(d *storage.DailyPlan) error {
		meal, err := s.meals.Find(ctx, mealID, mealNotFound(mealID))
		if err != nil {
			return err
		}
		if lifecycle.Contains(d.MealIDs, mealID) {
			return apperr.New(apperr.KindMealAlreadyExists, "Meal with id %s already exists in daily plan %s", mealID, d.Name)
		}

		d.MealIDs = append(d.MealIDs, mealID)
		d.TotalValues = d.TotalValues.Add(meal.TotalValues)
		return nil
	})
}

// RemoveMeal drops a referenced meal and subtracts its total values.
func (s *Service) RemoveMeal(ctx context.Context, planID, mealID uuid.UUID) (*storage.DailyPlan, error) {
	return s.Update(ctx, planID, planNotFound(planID), func(d *storage.DailyPlan) error {
		values, ok, err := s.meals.ValuesOf(ctx, mealID)
		if err != nil {
			return err
		}
		if !ok {
			return mealNotFound(mealID)
		}
		idx := lifecycle.IndexOf(d.MealIDs, mealID)
		if idx < 0 {
			return apperr.New(apperr.KindMealNotFound, "Meal with id %s doesn't exist in daily plan %s", mealID, d.Name)
		}

		d.MealIDs = append(d.MealIDs[:idx], d.MealIDs[idx+1:]...)
		d.TotalValues = d.TotalValues.Sub(values)
		return nil
	})
}

func planNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindDailyPlanNotFound, "Daily plan with id %s not found", id)
}

func mealNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindMealNotFound, "Meal with id %s not found", id)
}
