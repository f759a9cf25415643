package postgres

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация storage.Storage
type PostgresStorage struct {
	pool          *pgxpool.Pool
	rawFoods      *table[storage.RawFood, *storage.RawFood]
	foods         *table[storage.Food, *storage.Food]
	meals         *table[storage.Meal, *storage.Meal]
	dailyPlans    *table[storage.DailyPlan, *storage.DailyPlan]
	restaurants   *table[storage.Restaurant, *storage.Restaurant]
	groceryStores *table[storage.GroceryStore, *storage.GroceryStore]
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:          pool,
		rawFoods:      newRawFoodsTable(pool),
		foods:         newFoodsTable(pool),
		meals:         newMealsTable(pool),
		dailyPlans:    newDailyPlansTable(pool),
		restaurants:   newRestaurantsTable(pool),
		groceryStores: newGroceryStoresTable(pool),
	}, nil
}

func (p *PostgresStorage) RawFoods() storage.Store[storage.RawFood] {
	return p.rawFoods
}

func (p *PostgresStorage) Foods() storage.Store[storage.Food] {
	return p.foods
}

func (p *PostgresStorage) Meals() storage.Store[storage.Meal] {
	return p.meals
}

func (p *PostgresStorage) DailyPlans() storage.Store[storage.DailyPlan] {
	return p.dailyPlans
}

func (p *PostgresStorage) Restaurants() storage.Store[storage.Restaurant] {
	return p.restaurants
}

func (p *PostgresStorage) GroceryStores() storage.Store[storage.GroceryStore] {
	return p.groceryStores
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// ids keeps NOT NULL uuid[] columns happy.
func ids(v []uuid.UUID) []uuid.UUID {
	if v == nil {
		return []uuid.UUID{}
	}
	return v
}
