package catalogs

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// GroceryStoreService manages grocery stores: named lists of foods.
type GroceryStoreService struct {
	*lifecycle.Service[storage.GroceryStore, *storage.GroceryStore]
	foods Members
}

// NewGroceryStoreService creates a new grocery store service.
func NewGroceryStoreService(store storage.Store[storage.GroceryStore], foods Members, opts lifecycle.Options) *GroceryStoreService {
	return &GroceryStoreService{
		Service: lifecycle.New[storage.GroceryStore]("grocery_store", "Grocery store", store, opts),
		foods:   foods,
	}
}

// Create stores a grocery store with its initial foods.
func (s *GroceryStoreService) Create(ctx context.Context, req CreateGroceryStoreRequest) (*storage.GroceryStore, error) {
	if err := lifecycle.CheckName(req.Name); err != nil {
		return nil, err
	}
	if err := foodMember.checkAll(ctx, s.foods, req.Foods); err != nil {
		return nil, err
	}

	return s.Service.Create(ctx, &storage.GroceryStore{
		Base:    storage.Base{Name: req.Name},
		FoodIDs: append([]uuid.UUID{}, req.Foods...),
	})
}

func (s *GroceryStoreService) AddFood(ctx context.Context, id, foodID uuid.UUID) (*storage.GroceryStore, error) {
	return s.Update(ctx, id, groceryStoreNotFound(id), func(g *storage.GroceryStore) (err error) {
		g.FoodIDs, err = foodMember.add(ctx, s.foods, g.FoodIDs, foodID, "grocery store "+g.Name)
		return err
	})
}

func (s *GroceryStoreService) RemoveFood(ctx context.Context, id, foodID uuid.UUID) (*storage.GroceryStore, error) {
	return s.Update(ctx, id, groceryStoreNotFound(id), func(g *storage.GroceryStore) (err error) {
		g.FoodIDs, err = foodMember.remove(g.FoodIDs, foodID, "grocery store "+g.Name)
		return err
	})
}

func groceryStoreNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindGroceryStoreNotFound, "Grocery store with id %s not found", id)
}
