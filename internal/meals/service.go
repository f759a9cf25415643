package meals

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// FoodSource is the part of the food service meals depend on.
type FoodSource interface {
	FindInvalidElement(ctx context.Context, ids []uuid.UUID) int
	FindAll(ctx context.Context, ids []uuid.UUID, notFound func(uuid.UUID) *apperr.Error) ([]*storage.Food, error)
	Find(ctx context.Context, id uuid.UUID, notFound *apperr.Error) (*storage.Food, error)
	ValuesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error)
}

// Service maintains meals and the unweighted sum of their foods' totals.
type Service struct {
	*lifecycle.Service[storage.Meal, *storage.Meal]
	foods FoodSource
}

// NewService creates a new meal service.
func NewService(store storage.Store[storage.Meal], foods FoodSource, opts lifecycle.Options) *Service {
	svc := lifecycle.New[storage.Meal]("meal", "Meal", store, opts).
		WithTotals(func(m *storage.Meal) any { return m.TotalValues })
	return &Service{Service: svc, foods: foods}
}

// Create stores a meal with its initial foods.
func (s *Service) Create(ctx context.Context, req CreateMealRequest) (*storage.Meal, error) {
	if err := lifecycle.CheckName(req.Name); err != nil {
		return nil, err
	}
	if id, dup := lifecycle.FirstDuplicate(req.Foods); dup {
		return nil, apperr.New(apperr.KindFoodAlreadyExists, "Food with id %s is listed more than once", id)
	}
	if idx := s.foods.FindInvalidElement(ctx, req.Foods); idx >= 0 {
		return nil, foodNotFound(req.Foods[idx])
	}
	foods, err := s.foods.FindAll(ctx, req.Foods, foodNotFound)
	if err != nil {
		return nil, err
	}

	values := make([]nutrition.Values, len(foods))
	for i, f := range foods {
		values[i] = f.Total.Values
	}

	return s.Service.Create(ctx, &storage.Meal{
		Base:        storage.Base{Name: req.Name},
		FoodIDs:     append([]uuid.UUID{}, req.Foods...),
		TotalValues: nutrition.Sum(values...),
	})
}

// AddFood appends an active food and adds its total values.
func (s *Service) AddFood(ctx context.Context, mealID, foodID uuid.UUID) (*storage.Meal, error) {
	return s.Update(ctx, mealID, mealNotFound(mealID), func(m *storage.Meal) error {
		food, err := s.foods.Find(ctx, foodID, foodNotFound(foodID))
		if err != nil {
			return err
		}
		if lifecycle.Contains(m.FoodIDs, foodID) {
			return apperr.New(apperr.KindFoodAlreadyExists, "Food with id %s already exists in meal %s", foodID, m.Name)
		}

		m.FoodIDs = append(m.FoodIDs, foodID)
		m.TotalValues = m.TotalValues.Add(food.Total.Values)
		return nil
	})
}

// RemoveFood drops a referenced food and subtracts its total values. The food
// may have been soft-deleted since it was added.
func (s *Service) RemoveFood(ctx context.Context, mealID, foodID uuid.UUID) (*storage.Meal, error) {
	return s.Update(ctx, mealID, mealNotFound(mealID), func(m *storage.Meal) error {
		values, ok, err := s.foods.ValuesOf(ctx, foodID)
		if err != nil {
			return err
		}
		if !ok {
			return foodNotFound(foodID)
		}
		idx := lifecycle.IndexOf(m.FoodIDs, foodID)
		if idx < 0 {
			return apperr.New(apperr.KindFoodNotFound, "Food with id %s not found in meal %s", foodID, m.Name)
		}

		m.FoodIDs = append(m.FoodIDs[:idx], m.FoodIDs[idx+1:]...)
		m.TotalValues = m.TotalValues.Sub(values)
		return nil
	})
}

// ValuesOf returns the cached total values of a meal whatever its deleted
// flag. ok is false when the id was never stored.
func (s *Service) ValuesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error) {
	m, ok, err := s.FindAny(ctx, id)
	if err != nil || !ok {
		return nutrition.Values{}, ok, err
	}
	return m.TotalValues, true, nil
}

func mealNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindMealNotFound, "Meal with id %s not found", id)
}

func foodNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindFoodNotFound, "Food with id %s not found", id)
}
