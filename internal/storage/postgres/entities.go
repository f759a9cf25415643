package postgres

import (
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newRawFoodsTable(pool *pgxpool.Pool) *table[storage.RawFood, *storage.RawFood] {
	return &table[storage.RawFood, *storage.RawFood]{
		pool:    pool,
		name:    "raw_foods",
		columns: []string{"protein", "carb", "fat", "calories"},
		args: func(r *storage.RawFood) []any {
			return []any{r.Values.Protein, r.Values.Carb, r.Values.Fat, r.Values.Calories}
		},
		dest: func(r *storage.RawFood) []any {
			return []any{&r.Values.Protein, &r.Values.Carb, &r.Values.Fat, &r.Values.Calories}
		},
	}
}

func newFoodsTable(pool *pgxpool.Pool) *table[storage.Food, *storage.Food] {
	return &table[storage.Food, *storage.Food]{
		pool: pool,
		name: "foods",
		columns: []string{
			"ingredients",
			"total_protein", "total_carb", "total_fat", "total_calories", "total_quantity",
		},
		args: func(f *storage.Food) []any {
			ingredients := f.Ingredients
			if ingredients == nil {
				ingredients = []storage.Ingredient{}
			}
			t := f.Total
			return []any{ingredients, t.Values.Protein, t.Values.Carb, t.Values.Fat, t.Values.Calories, t.Quantity}
		},
		dest: func(f *storage.Food) []any {
			t := &f.Total
			return []any{&f.Ingredients, &t.Values.Protein, &t.Values.Carb, &t.Values.Fat, &t.Values.Calories, &t.Quantity}
		},
	}
}

func newMealsTable(pool *pgxpool.Pool) *table[storage.Meal, *storage.Meal] {
	return &table[storage.Meal, *storage.Meal]{
		pool: pool,
		name: "meals",
		columns: []string{
			"food_ids",
			"total_protein", "total_carb", "total_fat", "total_calories",
		},
		args: func(m *storage.Meal) []any {
			v := m.TotalValues
			return []any{ids(m.FoodIDs), v.Protein, v.Carb, v.Fat, v.Calories}
		},
		dest: func(m *storage.Meal) []any {
			v := &m.TotalValues
			return []any{&m.FoodIDs, &v.Protein, &v.Carb, &v.Fat, &v.Calories}
		},
	}
}

func newDailyPlansTable(pool *pgxpool.Pool) *table[storage.DailyPlan, *storage.DailyPlan] {
	return &table[storage.DailyPlan, *storage.DailyPlan]{
		pool: pool,
		name: "daily_plans",
		columns: []string{
			"meal_ids",
			"total_protein", "total_carb", "total_fat", "total_calories",
		},
		args: func(d *storage.DailyPlan) []any {
			v := d.TotalValues
			return []any{ids(d.MealIDs), v.Protein, v.Carb, v.Fat, v.Calories}
		},
		dest: func(d *storage.DailyPlan) []any {
			v := &d.TotalValues
			return []any{&d.MealIDs, &v.Protein, &v.Carb, &v.Fat, &v.Calories}
		},
	}
}

func newRestaurantsTable(pool *pgxpool.Pool) *table[storage.Restaurant, *storage.Restaurant] {
	return &table[storage.Restaurant, *storage.Restaurant]{
		pool:    pool,
		name:    "restaurants",
		columns: []string{"food_ids", "meal_ids"},
		args: func(r *storage.Restaurant) []any {
			return []any{ids(r.FoodIDs), ids(r.MealIDs)}
		},
		dest: func(r *storage.Restaurant) []any {
			return []any{&r.FoodIDs, &r.MealIDs}
		},
	}
}

func newGroceryStoresTable(pool *pgxpool.Pool) *table[storage.GroceryStore, *storage.GroceryStore] {
	return &table[storage.GroceryStore, *storage.GroceryStore]{
		pool:    pool,
		name:    "grocery_stores",
		columns: []string{"food_ids"},
		args: func(g *storage.GroceryStore) []any {
			return []any{ids(g.FoodIDs)}
		},
		dest: func(g *storage.GroceryStore) []any {
			return []any{&g.FoodIDs}
		},
	}
}
