package rawfoods

import (
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/storage"
)

// Handler handles HTTP requests for raw foods.
type Handler struct {
	service   *Service
	lifecycle *lifecycle.Handler[storage.RawFood, *storage.RawFood]
}

// NewHandler creates a new raw food handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		lifecycle: lifecycle.NewHandler(service.Service, ToDTO),
	}
}

// Register mounts the raw food routes.
func (h *Handler) Register(mux *http.ServeMux) {
	h.lifecycle.Register(mux, "/v1/raw-foods")
	mux.HandleFunc("POST /v1/raw-foods", h.HandleCreate)
	mux.HandleFunc("PATCH /v1/raw-foods/{id}", h.HandleUpdate)
}

// HandleCreate handles POST /v1/raw-foods
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRawFoodRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	raw, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, ToDTO(raw))
}

// HandleUpdate handles PATCH /v1/raw-foods/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	var req UpdateRawFoodRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	raw, err := h.service.UpdateByID(r.Context(), id, req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(raw))
}
