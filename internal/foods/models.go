package foods

import (
	"time"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// FoodDTO is the response shape of a food.
type FoodDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Ingredients []storage.Ingredient `json:"ingredients"`
	Total       nutrition.Total      `json:"total"`
	IsDeleted   bool                 `json:"isDeleted"`
	Version     int                  `json:"version"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// IngredientRequest references a raw food with a quantity. Both fields are
// required; pointers distinguish absent from zero.
type IngredientRequest struct {
	RawFoodID *uuid.UUID `json:"rawFoodId"`
	Quantity  *float64   `json:"quantity"`
}

// CreateFoodRequest is the body of POST /v1/foods.
type CreateFoodRequest struct {
	Name        string              `json:"name"`
	Ingredients []IngredientRequest `json:"ingredients"`
}

// UpdateIngredientRequest is the body of PUT /v1/foods/{id}/ingredients/{rawFoodId}.
type UpdateIngredientRequest struct {
	Quantity *float64 `json:"quantity"`
}

// ToDTO converts a stored food into its response shape.
func ToDTO(f *storage.Food) any {
	ingredients := f.Ingredients
	if ingredients == nil {
		ingredients = []storage.Ingredient{}
	}
	return FoodDTO{
		ID:          f.ID.String(),
		Name:        f.Name,
		Ingredients: ingredients,
		Total:       f.Total,
		IsDeleted:   f.IsDeleted,
		Version:     f.Version,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
