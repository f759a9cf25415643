package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by FindOne when no document matches the filter
	// and by Save when the document to update does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrVersionConflict is returned by Save when the stored version differs
	// from the version carried by the document.
	ErrVersionConflict = errors.New("document version conflict")
)

// Base holds the fields shared by every stored document.
type Base struct {
	ID        uuid.UUID
	Name      string
	IsDeleted bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meta gives generic code access to the shared fields.
func (b *Base) Meta() *Base {
	return b
}

// Entity is implemented by pointers to every document type.
type Entity interface {
	Meta() *Base
}

// RawFood — leaf entity, values are per 100 units of quantity.
type RawFood struct {
	Base
	Values nutrition.Values
}

func (r *RawFood) Clone() *RawFood {
	c := *r
	return &c
}

// Ingredient is a weighted reference from a Food to a RawFood.
type Ingredient struct {
	RawFoodID uuid.UUID `json:"rawFoodId"`
	Quantity  float64   `json:"quantity"`
}

// Food — composite of raw foods with a cached weighted total.
type Food struct {
	Base
	Ingredients []Ingredient
	Total       nutrition.Total
}

func (f *Food) Clone() *Food {
	c := *f
	c.Ingredients = append([]Ingredient(nil), f.Ingredients...)
	return &c
}

// IngredientIndex returns the position of the ingredient for rawFoodID or -1.
func (f *Food) IngredientIndex(rawFoodID uuid.UUID) int {
	for i, ing := range f.Ingredients {
		if ing.RawFoodID == rawFoodID {
			return i
		}
	}
	return -1
}

// Meal — set of foods with the unweighted sum of their totals.
type Meal struct {
	Base
	FoodIDs     []uuid.UUID
	TotalValues nutrition.Values
}

func (m *Meal) Clone() *Meal {
	c := *m
	c.FoodIDs = cloneIDs(m.FoodIDs)
	return &c
}

// DailyPlan — set of meals with the unweighted sum of their totals.
type DailyPlan struct {
	Base
	MealIDs     []uuid.UUID
	TotalValues nutrition.Values
}

func (d *DailyPlan) Clone() *DailyPlan {
	c := *d
	c.MealIDs = cloneIDs(d.MealIDs)
	return &c
}

// Restaurant — membership list of foods and meals, no aggregation.
type Restaurant struct {
	Base
	FoodIDs []uuid.UUID
	MealIDs []uuid.UUID
}

func (r *Restaurant) Clone() *Restaurant {
	c := *r
	c.FoodIDs = cloneIDs(r.FoodIDs)
	c.MealIDs = cloneIDs(r.MealIDs)
	return &c
}

// GroceryStore — membership list of foods, no aggregation.
type GroceryStore struct {
	Base
	FoodIDs []uuid.UUID
}

func (g *GroceryStore) Clone() *GroceryStore {
	c := *g
	c.FoodIDs = cloneIDs(g.FoodIDs)
	return &c
}

// Filter selects documents by deleted flag and, optionally, by id.
type Filter struct {
	IsDeleted bool
	ID        *uuid.UUID
}

// Active matches documents that are not soft-deleted.
func Active() Filter {
	return Filter{}
}

// Deleted matches soft-deleted documents.
func Deleted() Filter {
	return Filter{IsDeleted: true}
}

// ActiveByID matches the active document with the given id.
func ActiveByID(id uuid.UUID) Filter {
	return Filter{ID: &id}
}

// DeletedByID matches the soft-deleted document with the given id.
func DeletedByID(id uuid.UUID) Filter {
	return Filter{IsDeleted: true, ID: &id}
}

// Matches reports whether b satisfies the filter.
func (f Filter) Matches(b *Base) bool {
	if b.IsDeleted != f.IsDeleted {
		return false
	}
	return f.ID == nil || *f.ID == b.ID
}

// Store is the persistence capability for one entity kind.
//
// Save inserts when the document has no id (assigning id, version 1 and
// timestamps) and otherwise updates it if the stored version equals the
// document's version, bumping the version on success.
type Store[T any] interface {
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Find(ctx context.Context, filter Filter) ([]T, error)
	Exists(ctx context.Context, filter Filter) (bool, error)
	Save(ctx context.Context, doc *T) error
}

// Storage groups the stores of every entity kind.
type Storage interface {
	RawFoods() Store[RawFood]
	Foods() Store[Food]
	Meals() Store[Meal]
	DailyPlans() Store[DailyPlan]
	Restaurants() Store[Restaurant]
	GroceryStores() Store[GroceryStore]

	// Ping checks the underlying connection (no-op for memory)
	Ping(ctx context.Context) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	return append([]uuid.UUID(nil), ids...)
}
