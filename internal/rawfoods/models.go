package rawfoods

import (
	"time"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
)

// RawFoodDTO is the response shape of a raw food. Values are per 100 units.
type RawFoodDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Protein   float64   `json:"protein"`
	Carb      float64   `json:"carb"`
	Fat       float64   `json:"fat"`
	Calories  float64   `json:"calories"`
	IsDeleted bool      `json:"isDeleted"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRawFoodRequest is the body of POST /v1/raw-foods.
type CreateRawFoodRequest struct {
	Name     string  `json:"name"`
	Protein  float64 `json:"protein"`
	Carb     float64 `json:"carb"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// UpdateRawFoodRequest is the body of PATCH /v1/raw-foods/{id}.
// Absent fields are left unchanged.
type UpdateRawFoodRequest struct {
	Name     *string  `json:"name,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carb     *float64 `json:"carb,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
}

func (r CreateRawFoodRequest) values() nutrition.Values {
	return nutrition.Values{Protein: r.Protein, Carb: r.Carb, Fat: r.Fat, Calories: r.Calories}
}

// apply copies the present fields onto v.
func (r UpdateRawFoodRequest) apply(v nutrition.Values) nutrition.Values {
	if r.Protein != nil {
		v.Protein = *r.Protein
	}
	if r.Carb != nil {
		v.Carb = *r.Carb
	}
	if r.Fat != nil {
		v.Fat = *r.Fat
	}
	if r.Calories != nil {
		v.Calories = *r.Calories
	}
	return v
}

// ToDTO converts a stored raw food into its response shape.
func ToDTO(r *storage.RawFood) any {
	return RawFoodDTO{
		ID:        r.ID.String(),
		Name:      r.Name,
		Protein:   r.Values.Protein,
		Carb:      r.Values.Carb,
		Fat:       r.Values.Fat,
		Calories:  r.Values.Calories,
		IsDeleted: r.IsDeleted,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
