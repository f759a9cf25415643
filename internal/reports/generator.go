package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// PlanSource looks up daily plans.
type PlanSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*storage.DailyPlan, error)
}

// MealSource looks up meals whatever their deleted flag.
type MealSource interface {
	FindAny(ctx context.Context, id uuid.UUID) (*storage.Meal, bool, error)
}

// Generator generates PDF/CSV reports for daily plans
type Generator struct {
	plans PlanSource
	meals MealSource
}

// NewGenerator creates a new report generator
func NewGenerator(plans PlanSource, meals MealSource) *Generator {
	return &Generator{plans: plans, meals: meals}
}

// Collect loads the plan and resolves each referenced meal.
func (g *Generator) Collect(ctx context.Context, planID uuid.UUID) (*PlanReport, error) {
	plan, err := g.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	report := &PlanReport{PlanID: plan.ID, Name: plan.Name, Total: plan.TotalValues}
	for _, id := range plan.MealIDs {
		meal, ok, err := g.meals.FindAny(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.Rows = append(report.Rows, Row{MealID: id, Missing: true})
			continue
		}
		report.Rows = append(report.Rows, Row{
			MealID:  id,
			Name:    meal.Name,
			Values:  meal.TotalValues,
			Deleted: meal.IsDeleted,
		})
	}
	return report, nil
}

// Generate renders the plan in the requested format.
func (g *Generator) Generate(ctx context.Context, planID uuid.UUID, format string) ([]byte, error) {
	if format != FormatPDF && format != FormatCSV {
		return nil, apperr.New(apperr.KindValidation, "unsupported format: %s", format)
	}

	report, err := g.Collect(ctx, planID)
	if err != nil {
		return nil, err
	}

	var data []byte
	if format == FormatPDF {
		data, err = generatePDF(report)
	} else {
		data, err = generateCSV(report)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return data, nil
}

// generateCSV generates a CSV report
func generateCSV(report *PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"meal_id", "meal", "protein", "carb", "fat", "calories"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		if err := w.Write(append([]string{row.MealID.String(), row.label()}, valueCells(row.Values)...)); err != nil {
			return nil, err
		}
	}
	if err := w.Write(append([]string{"", "total"}, valueCells(report.Total)...)); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generatePDF generates a one-page PDF with the plan's meals and totals
func generatePDF(report *PlanReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Daily plan: "+report.Name))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{70, 25, 25, 25, 30}
	for i, title := range []string{"Meal", "Protein", "Carb", "Fat", "Calories"} {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range report.Rows {
		drawRow(pdf, widths, tr(row.label()), row.Values)
	}

	pdf.SetFont("Helvetica", "B", 9)
	drawRow(pdf, widths, "Total", report.Total)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, widths []float64, label string, v nutrition.Values) {
	pdf.CellFormat(widths[0], 6, label, "1", 0, "L", false, 0, "")
	for i, cell := range valueCells(v) {
		pdf.CellFormat(widths[i+1], 6, cell, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)
}

func valueCells(v nutrition.Values) []string {
	return []string{
		fmt.Sprintf("%.1f", v.Protein),
		fmt.Sprintf("%.1f", v.Carb),
		fmt.Sprintf("%.1f", v.Fat),
		fmt.Sprintf("%.0f", v.Calories),
	}
}
