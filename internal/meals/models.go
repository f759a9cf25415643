package meals

import (
	"time"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// MealDTO is the response shape of a meal.
type MealDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Foods       []string         `json:"foods"`
	TotalValues nutrition.Values `json:"totalValues"`
	IsDeleted   bool             `json:"isDeleted"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CreateMealRequest is the body of POST /v1/meals.
type CreateMealRequest struct {
	Name  string      `json:"name"`
	Foods []uuid.UUID `json:"foods"`
}

// FoodRequest is the body of POST /v1/meals/{id}/foods.
type FoodRequest struct {
	Food *uuid.UUID `json:"food"`
}

// ToDTO converts a stored meal into its response shape.
func ToDTO(m *storage.Meal) any {
	foods := make([]string, len(m.FoodIDs))
	for i, id := range m.FoodIDs {
		foods[i] = id.String()
	}
	return MealDTO{
		ID:          m.ID.String(),
		Name:        m.Name,
		Foods:       foods,
		TotalValues: m.TotalValues,
		IsDeleted:   m.IsDeleted,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
