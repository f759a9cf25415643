package dailyplans

import (
	"time"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// DailyPlanDTO is the response shape of a daily plan.
type DailyPlanDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Meals       []string         `json:"meals"`
	TotalValues nutrition.Values `json:"totalValues"`
	IsDeleted   bool             `json:"isDeleted"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CreateDailyPlanRequest is the body of POST /v1/daily-plans.
type CreateDailyPlanRequest struct {
	Name  string      `json:"name"`
	Meals []uuid.UUID `json:"meals"`
}

// MealRequest is the body of POST /v1/daily-plans/{id}/meals.
type MealRequest struct {
	Meal *uuid.UUID `json:"meal"`
}

// ToDTO converts a stored daily plan into its response shape.
func ToDTO(d *storage.DailyPlan) any {
	meals := make([]string, len(d.MealIDs))
	for i, id := range d.MealIDs {
		meals[i] = id.String()
	}
	return DailyPlanDTO{
		ID:          d.ID.String(),
		Name:        d.Name,
		Meals:       meals,
		TotalValues: d.TotalValues,
		IsDeleted:   d.IsDeleted,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
