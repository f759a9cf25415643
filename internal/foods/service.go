package foods

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RawFoodSource is the part of the raw food service foods depend on.
type RawFoodSource interface {
	FindInvalidElement(ctx context.Context, ids []uuid.UUID) int
	FindAll(ctx context.Context, ids []uuid.UUID, notFound func(uuid.UUID) *apperr.Error) ([]*storage.RawFood, error)
	Find(ctx context.Context, id uuid.UUID, notFound *apperr.Error) (*storage.RawFood, error)
	RatesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error)
}

// Service maintains foods and their cached weighted totals.
type Service struct {
	*lifecycle.Service[storage.Food, *storage.Food]
	rawFoods RawFoodSource
}

// NewService creates a new food service.
func NewService(store storage.Store[storage.Food], rawFoods RawFoodSource, opts lifecycle.Options) *Service {
	svc := lifecycle.New[storage.Food]("food", "Food", store, opts).
		WithTotals(func(f *storage.Food) any { return f.Total })
	return &Service{Service: svc, rawFoods: rawFoods}
}

// Create stores a food with its initial ingredients. Repeated raw foods are
// merged into one entry; every reference is checked before anything is saved.
func (s *Service) Create(ctx context.Context, req CreateFoodRequest) (*storage.Food, error) {
	if err := lifecycle.CheckName(req.Name); err != nil {
		return nil, err
	}

	ingredients := make([]storage.Ingredient, 0, len(req.Ingredients))
	for i, in := range req.Ingredients {
		ing, err := checkIngredient(in)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidIngredient, "ingredients[%d]: %s", i, err.Message)
		}
		if idx := indexOf(ingredients, ing.RawFoodID); idx >= 0 {
			ingredients[idx].Quantity += ing.Quantity
			continue
		}
		ingredients = append(ingredients, ing)
	}

	ids := make([]uuid.UUID, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.RawFoodID
	}
	if idx := s.rawFoods.FindInvalidElement(ctx, ids); idx >= 0 {
		return nil, rawFoodNotFound(ids[idx])
	}
	raws, err := s.rawFoods.FindAll(ctx, ids, rawFoodNotFound)
	if err != nil {
		return nil, err
	}

	var total nutrition.Total
	for i, raw := range raws {
		total = total.AddPortion(raw.Values, ingredients[i].Quantity)
	}

	return s.Service.Create(ctx, &storage.Food{
		Base:        storage.Base{Name: req.Name},
		Ingredients: ingredients,
		Total:       total,
	})
}

// AddIngredient adds a quantity of a raw food, merging into an existing entry
// for the same raw food.
func (s *Service) AddIngredient(ctx context.Context, foodID uuid.UUID, req IngredientRequest) (*storage.Food, error) {
	return s.Update(ctx, foodID, foodNotFound(foodID), func(f *storage.Food) error {
		ing, err := checkIngredient(req)
		if err != nil {
			return err
		}
		raw, findErr := s.rawFoods.Find(ctx, ing.RawFoodID, rawFoodNotFound(ing.RawFoodID))
		if findErr != nil {
			return findErr
		}

		if idx := f.IngredientIndex(ing.RawFoodID); idx >= 0 {
			f.Ingredients[idx].Quantity += ing.Quantity
		} else {
			f.Ingredients = append(f.Ingredients, ing)
		}
		f.Total = f.Total.AddPortion(raw.Values, ing.Quantity)

		s.Logger().WithFields(logrus.Fields{
			"id":        f.ID,
			"rawFoodId": ing.RawFoodID,
			"quantity":  ing.Quantity,
		}).Debug("ingredient added")
		return nil
	})
}

// UpdateIngredient replaces the quantity of an existing ingredient and shifts
// the total by the difference.
func (s *Service) UpdateIngredient(ctx context.Context, foodID, rawFoodID uuid.UUID, req UpdateIngredientRequest) (*storage.Food, error) {
	return s.Update(ctx, foodID, foodNotFound(foodID), func(f *storage.Food) error {
		idx := f.IngredientIndex(rawFoodID)
		if idx < 0 {
			return ingredientNotFound(rawFoodID, f)
		}
		if req.Quantity == nil {
			return apperr.New(apperr.KindValidation, "quantity is required")
		}
		if *req.Quantity < 0 {
			return apperr.New(apperr.KindInvalidIngredient, "quantity cannot be less than zero")
		}

		rates, err := s.rates(ctx, rawFoodID)
		if err != nil {
			return err
		}
		delta := *req.Quantity - f.Ingredients[idx].Quantity
		f.Total = f.Total.AddPortion(rates, delta)
		f.Ingredients[idx].Quantity = *req.Quantity
		return nil
	})
}

// RemoveIngredient drops an ingredient and its whole contribution.
func (s *Service) RemoveIngredient(ctx context.Context, foodID, rawFoodID uuid.UUID) (*storage.Food, error) {
	return s.Update(ctx, foodID, foodNotFound(foodID), func(f *storage.Food) error {
		idx := f.IngredientIndex(rawFoodID)
		if idx < 0 {
			return ingredientNotFound(rawFoodID, f)
		}

		rates, err := s.rates(ctx, rawFoodID)
		if err != nil {
			return err
		}
		f.Total = f.Total.AddPortion(rates, -f.Ingredients[idx].Quantity)
		f.Ingredients = append(f.Ingredients[:idx], f.Ingredients[idx+1:]...)
		return nil
	})
}

// ValuesOf returns the cached total values of a food whatever its deleted
// flag. ok is false when the id was never stored.
func (s *Service) ValuesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error) {
	f, ok, err := s.FindAny(ctx, id)
	if err != nil || !ok {
		return nutrition.Values{}, ok, err
	}
	return f.Total.Values, true, nil
}

// rates resolves a referenced raw food even if it was soft-deleted after
// being added, so its contribution can still be reversed.
func (s *Service) rates(ctx context.Context, rawFoodID uuid.UUID) (nutrition.Values, error) {
	rates, ok, err := s.rawFoods.RatesOf(ctx, rawFoodID)
	if err != nil {
		return nutrition.Values{}, err
	}
	if !ok {
		return nutrition.Values{}, rawFoodNotFound(rawFoodID)
	}
	return rates, nil
}

func checkIngredient(in IngredientRequest) (storage.Ingredient, *apperr.Error) {
	if in.RawFoodID == nil || *in.RawFoodID == uuid.Nil {
		return storage.Ingredient{}, apperr.New(apperr.KindInvalidIngredient, "rawFoodId is missing")
	}
	if in.Quantity == nil {
		return storage.Ingredient{}, apperr.New(apperr.KindInvalidIngredient, "quantity is missing")
	}
	if *in.Quantity <= 0 {
		return storage.Ingredient{}, apperr.New(apperr.KindInvalidIngredient, "quantity must be greater than zero")
	}
	return storage.Ingredient{RawFoodID: *in.RawFoodID, Quantity: *in.Quantity}, nil
}

func indexOf(ingredients []storage.Ingredient, rawFoodID uuid.UUID) int {
	for i, ing := range ingredients {
		if ing.RawFoodID == rawFoodID {
			return i
		}
	}
	return -1
}

func foodNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindFoodNotFound, "Food with id %s not found", id)
}

func rawFoodNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindRawFoodNotFound, "Raw food with id %s not found", id)
}

func ingredientNotFound(rawFoodID uuid.UUID, f *storage.Food) *apperr.Error {
	return apperr.New(apperr.KindIngredientNotFound, "Ingredient %s not found in food %s", rawFoodID, f.Name)
}
