package catalogs

import (
	"time"

	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// RestaurantDTO is the response shape of a restaurant.
type RestaurantDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Foods     []string  `json:"foods"`
	Meals     []string  `json:"meals"`
	IsDeleted bool      `json:"isDeleted"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GroceryStoreDTO is the response shape of a grocery store.
type GroceryStoreDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Foods     []string  `json:"foods"`
	IsDeleted bool      `json:"isDeleted"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRestaurantRequest is the body of POST /v1/restaurants.
type CreateRestaurantRequest struct {
	Name  string      `json:"name"`
	Foods []uuid.UUID `json:"foods"`
	Meals []uuid.UUID `json:"meals"`
}

// CreateGroceryStoreRequest is the body of POST /v1/grocery-stores.
type CreateGroceryStoreRequest struct {
	Name  string      `json:"name"`
	Foods []uuid.UUID `json:"foods"`
}

// FoodRequest is the body of the add-food routes.
type FoodRequest struct {
	Food *uuid.UUID `json:"food"`
}

// MealRequest is the body of POST /v1/restaurants/{id}/meals.
type MealRequest struct {
	Meal *uuid.UUID `json:"meal"`
}

// RestaurantToDTO converts a stored restaurant into its response shape.
func RestaurantToDTO(r *storage.Restaurant) any {
	return RestaurantDTO{
		ID:        r.ID.String(),
		Name:      r.Name,
		Foods:     idStrings(r.FoodIDs),
		Meals:     idStrings(r.MealIDs),
		IsDeleted: r.IsDeleted,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// GroceryStoreToDTO converts a stored grocery store into its response shape.
func GroceryStoreToDTO(g *storage.GroceryStore) any {
	return GroceryStoreDTO{
		ID:        g.ID.String(),
		Name:      g.Name,
		Foods:     idStrings(g.FoodIDs),
		IsDeleted: g.IsDeleted,
		Version:   g.Version,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
