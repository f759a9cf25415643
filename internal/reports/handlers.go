package reports

import (
	"fmt"
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/sirupsen/logrus"
)

// Handlers handles HTTP requests for reports
type Handlers struct {
	generator *Generator
	logger    logrus.FieldLogger
}

// NewHandlers creates new handlers
func NewHandlers(generator *Generator, logger logrus.FieldLogger) *Handlers {
	return &Handlers{generator: generator, logger: logger}
}

// Register mounts the report routes.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/daily-plans/{id}/report.pdf", h.handle(FormatPDF))
	mux.HandleFunc("GET /v1/daily-plans/{id}/report.csv", h.handle(FormatCSV))
}

// handle serves GET /v1/daily-plans/{id}/report.{format}
func (h *Handlers) handle(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.PathID(r, "id")
		if err != nil {
			respond.Error(w, nil, err)
			return
		}

		data, err := h.generator.Generate(r.Context(), id, format)
		if err != nil {
			respond.Error(w, h.logger, err)
			return
		}

		contentType := "application/pdf"
		if format == FormatCSV {
			contentType = "text/csv; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"daily-plan-%s.%s\"", id, format))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
