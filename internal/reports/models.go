package reports

import (
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/google/uuid"
)

// Supported output formats
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// Row is one meal line of a daily plan report.
type Row struct {
	MealID  uuid.UUID
	Name    string
	Values  nutrition.Values
	Deleted bool // soft-deleted meal still referenced by the plan
	Missing bool // referenced meal was never stored
}

// PlanReport is the data rendered for one daily plan.
type PlanReport struct {
	PlanID uuid.UUID
	Name   string
	Rows   []Row
	Total  nutrition.Values
}

func (r Row) label() string {
	switch {
	case r.Missing:
		return "(missing)"
	case r.Deleted:
		return r.Name + " (deleted)"
	default:
		return r.Name
	}
}
