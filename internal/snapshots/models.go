package snapshots

import (
	"time"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// Supported formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Snapshot is the exported document: every entity of every kind, active and
// deleted alike.
type Snapshot struct {
	TakenAt       time.Time      `json:"takenAt" yaml:"takenAt"`
	RawFoods      []RawFood      `json:"rawFoods" yaml:"rawFoods"`
	Foods         []Food         `json:"foods" yaml:"foods"`
	Meals         []Meal         `json:"meals" yaml:"meals"`
	DailyPlans    []DailyPlan    `json:"dailyPlans" yaml:"dailyPlans"`
	Restaurants   []Restaurant   `json:"restaurants" yaml:"restaurants"`
	GroceryStores []GroceryStore `json:"groceryStores" yaml:"groceryStores"`
}

// Header carries the fields shared by every record.
type Header struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	IsDeleted bool      `json:"isDeleted" yaml:"isDeleted"`
	Version   int       `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type RawFood struct {
	Header `yaml:",inline"`
	Values nutrition.Values `json:"values" yaml:"values"`
}

type Ingredient struct {
	RawFoodID uuid.UUID `json:"rawFoodId" yaml:"rawFoodId"`
	Quantity  float64   `json:"quantity" yaml:"quantity"`
}

type Food struct {
	Header      `yaml:",inline"`
	Ingredients []Ingredient    `json:"ingredients" yaml:"ingredients"`
	Total       nutrition.Total `json:"total" yaml:"total"`
}

type Meal struct {
	Header      `yaml:",inline"`
	Foods       []uuid.UUID      `json:"foods" yaml:"foods"`
	TotalValues nutrition.Values `json:"totalValues" yaml:"totalValues"`
}

type DailyPlan struct {
	Header      `yaml:",inline"`
	Meals       []uuid.UUID      `json:"meals" yaml:"meals"`
	TotalValues nutrition.Values `json:"totalValues" yaml:"totalValues"`
}

type Restaurant struct {
	Header `yaml:",inline"`
	Foods  []uuid.UUID `json:"foods" yaml:"foods"`
	Meals  []uuid.UUID `json:"meals" yaml:"meals"`
}

type GroceryStore struct {
	Header `yaml:",inline"`
	Foods  []uuid.UUID `json:"foods" yaml:"foods"`
}

// Result describes a stored snapshot.
type Result struct {
	Key    string         `json:"key"`
	Format string         `json:"format"`
	Size   int64          `json:"size"`
	URL    string         `json:"url,omitempty"`
	Counts map[string]int `json:"counts"`
}

func header(b *storage.Base) Header {
	return Header{
		ID:        b.ID,
		Name:      b.Name,
		IsDeleted: b.IsDeleted,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func ids(in []uuid.UUID) []uuid.UUID {
	return append([]uuid.UUID{}, in...)
}

func rawFoodRecord(r *storage.RawFood) RawFood {
	return RawFood{Header: header(&r.Base), Values: r.Values}
}

func foodRecord(f *storage.Food) Food {
	ings := make([]Ingredient, len(f.Ingredients))
	for i, ing := range f.Ingredients {
		ings[i] = Ingredient{RawFoodID: ing.RawFoodID, Quantity: ing.Quantity}
	}
	return Food{Header: header(&f.Base), Ingredients: ings, Total: f.Total}
}

func mealRecord(m *storage.Meal) Meal {
	return Meal{Header: header(&m.Base), Foods: ids(m.FoodIDs), TotalValues: m.TotalValues}
}

func dailyPlanRecord(d *storage.DailyPlan) DailyPlan {
	return DailyPlan{Header: header(&d.Base), Meals: ids(d.MealIDs), TotalValues: d.TotalValues}
}

func restaurantRecord(r *storage.Restaurant) Restaurant {
	return Restaurant{Header: header(&r.Base), Foods: ids(r.FoodIDs), Meals: ids(r.MealIDs)}
}

func groceryStoreRecord(g *storage.GroceryStore) GroceryStore {
	return GroceryStore{Header: header(&g.Base), Foods: ids(g.FoodIDs)}
}
