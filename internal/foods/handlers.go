package foods

import (
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/storage"
)

// Handler handles HTTP requests for foods.
type Handler struct {
	service   *Service
	lifecycle *lifecycle.Handler[storage.Food, *storage.Food]
}

// NewHandler creates a new food handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		lifecycle: lifecycle.NewHandler(service.Service, ToDTO),
	}
}

// Register mounts the food routes.
func (h *Handler) Register(mux *http.ServeMux) {
	h.lifecycle.Register(mux, "/v1/foods")
	mux.HandleFunc("POST /v1/foods", h.HandleCreate)
	mux.HandleFunc("POST /v1/foods/{id}/ingredients", h.HandleAddIngredient)
	mux.HandleFunc("PUT /v1/foods/{id}/ingredients/{rawFoodId}", h.HandleUpdateIngredient)
	mux.HandleFunc("DELETE /v1/foods/{id}/ingredients/{rawFoodId}", h.HandleRemoveIngredient)
}

// HandleCreate handles POST /v1/foods
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	food, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, ToDTO(food))
}

// HandleAddIngredient handles POST /v1/foods/{id}/ingredients
func (h *Handler) HandleAddIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	var req IngredientRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	food, err := h.service.AddIngredient(r.Context(), id, req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(food))
}

// HandleUpdateIngredient handles PUT /v1/foods/{id}/ingredients/{rawFoodId}
func (h *Handler) HandleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}
	rawFoodID, err := respond.PathID(r, "rawFoodId")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	var req UpdateIngredientRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	food, err := h.service.UpdateIngredient(r.Context(), id, rawFoodID, req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(food))
}

// HandleRemoveIngredient handles DELETE /v1/foods/{id}/ingredients/{rawFoodId}
func (h *Handler) HandleRemoveIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}
	rawFoodID, err := respond.PathID(r, "rawFoodId")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	food, err := h.service.RemoveIngredient(r.Context(), id, rawFoodID)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(food))
}
