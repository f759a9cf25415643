package snapshots

import (
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/respond"
)

// Handler exposes snapshot export over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleExport handles POST /v1/admin/snapshots?format=json|yaml
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Export(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, h.service.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, result)
}
