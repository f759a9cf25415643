package repair

import (
	"net/http"
	"strconv"

	"github.com/fdg312/nutrition-hub/internal/respond"
)

// Handler exposes the repair run over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new repair handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleRepair handles POST /v1/admin/repair?apply=1
func (h *Handler) HandleRepair(w http.ResponseWriter, r *http.Request) {
	apply, _ := strconv.ParseBool(r.URL.Query().Get("apply"))

	report, err := h.service.Run(r.Context(), apply)
	if err != nil {
		respond.Error(w, h.service.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, report)
}
