package memory

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/storage"
)

// MemoryStorage — in-memory реализация storage.Storage
type MemoryStorage struct {
	rawFoods      *Collection[storage.RawFood, *storage.RawFood]
	foods         *Collection[storage.Food, *storage.Food]
	meals         *Collection[storage.Meal, *storage.Meal]
	dailyPlans    *Collection[storage.DailyPlan, *storage.DailyPlan]
	restaurants   *Collection[storage.Restaurant, *storage.Restaurant]
	groceryStores *Collection[storage.GroceryStore, *storage.GroceryStore]
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		rawFoods:      NewCollection[storage.RawFood](),
		foods:         NewCollection[storage.Food](),
		meals:         NewCollection[storage.Meal](),
		dailyPlans:    NewCollection[storage.DailyPlan](),
		restaurants:   NewCollection[storage.Restaurant](),
		groceryStores: NewCollection[storage.GroceryStore](),
	}
}

func (m *MemoryStorage) RawFoods() storage.Store[storage.RawFood] {
	return m.rawFoods
}

func (m *MemoryStorage) Foods() storage.Store[storage.Food] {
	return m.foods
}

func (m *MemoryStorage) Meals() storage.Store[storage.Meal] {
	return m.meals
}

func (m *MemoryStorage) DailyPlans() storage.Store[storage.DailyPlan] {
	return m.dailyPlans
}

func (m *MemoryStorage) Restaurants() storage.Store[storage.Restaurant] {
	return m.restaurants
}

func (m *MemoryStorage) GroceryStores() storage.Store[storage.GroceryStore] {
	return m.groceryStores
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}
