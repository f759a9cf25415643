package meals

import (
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/storage"
)

// Handler handles HTTP requests for meals.
type Handler struct {
	service   *Service
	lifecycle *lifecycle.Handler[storage.Meal, *storage.Meal]
}

// NewHandler creates a new meal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		lifecycle: lifecycle.NewHandler(service.Service, ToDTO),
	}
}

// Register mounts the meal routes.
func (h *Handler) Register(mux *http.ServeMux) {
	h.lifecycle.Register(mux, "/v1/meals")
	mux.HandleFunc("POST /v1/meals", h.HandleCreate)
	mux.HandleFunc("POST /v1/meals/{id}/foods", h.HandleAddFood)
	mux.HandleFunc("DELETE /v1/meals/{id}/foods/{foodId}", h.HandleRemoveFood)
}

// HandleCreate handles POST /v1/meals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	meal, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, ToDTO(meal))
}

// HandleAddFood handles POST /v1/meals/{id}/foods
func (h *Handler) HandleAddFood(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	var req FoodRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}
	if req.Food == nil {
		respond.Error(w, nil, apperr.New(apperr.KindValidation, "food is missing in request"))
		return
	}

	meal, err := h.service.AddFood(r.Context(), id, *req.Food)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(meal))
}

// HandleRemoveFood handles DELETE /v1/meals/{id}/foods/{foodId}
func (h *Handler) HandleRemoveFood(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}
	foodID, err := respond.PathID(r, "foodId")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	meal, err := h.service.RemoveFood(r.Context(), id, foodID)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(meal))
}
