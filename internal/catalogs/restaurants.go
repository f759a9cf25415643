package catalogs

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// RestaurantService manages restaurants: named lists of foods and meals.
type RestaurantService struct {
	*lifecycle.Service[storage.Restaurant, *storage.Restaurant]
	foods Members
	meals Members
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(store storage.Store[storage.Restaurant], foods, meals Members, opts lifecycle.Options) *RestaurantService {
	return &RestaurantService{
		Service: lifecycle.New[storage.Restaurant]("restaurant", "Restaurant", store, opts),
		foods:   foods,
		meals:   meals,
	}
}

// Create stores a restaurant with its initial foods and meals.
func (s *RestaurantService) Create(ctx context.Context, req CreateRestaurantRequest) (*storage.Restaurant, error) {
	if err := lifecycle.CheckName(req.Name); err != nil {
		return nil, err
	}
	if err := foodMember.checkAll(ctx, s.foods, req.Foods); err != nil {
		return nil, err
	}
	if err := mealMember.checkAll(ctx, s.meals, req.Meals); err != nil {
		return nil, err
	}

	return s.Service.Create(ctx, &storage.Restaurant{
		Base:    storage.Base{Name: req.Name},
		FoodIDs: append([]uuid.UUID{}, req.Foods...),
		MealIDs: append([]uuid.UUID{}, req.Meals...),
	})
}

func (s *RestaurantService) AddFood(ctx context.Context, id, foodID uuid.UUID) (*storage.Restaurant, error) {
	return s.Update(ctx, id, restaurantNotFound(id), func(r *storage.Restaurant) (err error) {
		r.FoodIDs, err = foodMember.add(ctx, s.foods, r.FoodIDs, foodID, "restaurant "+r.Name)
		return err
	})
}

func (s *RestaurantService) RemoveFood(ctx context.Context, id, foodID uuid.UUID) (*storage.Restaurant, error) {
	return s.Update(ctx, id, restaurantNotFound(id), func(r *storage.Restaurant) (err error) {
		r.FoodIDs, err = foodMember.remove(r.FoodIDs, foodID, "restaurant "+r.Name)
		return err
	})
}

func (s *RestaurantService) AddMeal(ctx context.Context, id, mealID uuid.UUID) (*storage.Restaurant, error) {
	return s.Update(ctx, id, restaurantNotFound(id), func(r *storage.Restaurant) (err error) {
		r.MealIDs, err = mealMember.add(ctx, s.meals, r.MealIDs, mealID, "restaurant "+r.Name)
		return err
	})
}

func (s *RestaurantService) RemoveMeal(ctx context.Context, id, mealID uuid.UUID) (*storage.Restaurant, error) {
	return s.Update(ctx, id, restaurantNotFound(id), func(r *storage.Restaurant) (err error) {
		r.MealIDs, err = mealMember.remove(r.MealIDs, mealID, "restaurant "+r.Name)
		return err
	})
}

func restaurantNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindRestaurantNotFound, "Restaurant with id %s not found", id)
}
