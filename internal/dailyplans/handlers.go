package dailyplans

import (
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/storage"
)

// Handler handles HTTP requests for daily plans.
type Handler struct {
	service   *Service
	lifecycle *lifecycle.Handler[storage.DailyPlan, *storage.DailyPlan]
}

// NewHandler creates a new daily plan handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		lifecycle: lifecycle.NewHandler(service.Service, ToDTO),
	}
}

// Register mounts the daily plan routes.
func (h *Handler) Register(mux *http.ServeMux) {
	h.lifecycle.Register(mux, "/v1/daily-plans")
	mux.HandleFunc("POST /v1/daily-plans", h.HandleCreate)
	mux.HandleFunc("POST /v1/daily-plans/{id}/meals", h.HandleAddMeal)
	mux.HandleFunc("DELETE /v1/daily-plans/{id}/meals/{mealId}", h.HandleRemoveMeal)
}

// HandleCreate handles POST /v1/daily-plans
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateDailyPlanRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	plan, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, ToDTO(plan))
}

// HandleAddMeal handles POST /v1/daily-plans/{id}/meals
func (h *Handler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	var req MealRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}
	if req.Meal == nil {
		respond.Error(w, nil, apperr.New(apperr.KindValidation, "meal is missing in request"))
		return
	}

	plan, err := h.service.AddMeal(r.Context(), id, *req.Meal)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(plan))
}

// HandleRemoveMeal handles DELETE /v1/daily-plans/{id}/meals/{mealId}
func (h *Handler) HandleRemoveMeal(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}
	mealID, err := respond.PathID(r, "mealId")
	if err != nil {
		respond.Error(w, nil, err)
		return
	}

	plan, err := h.service.RemoveMeal(r.Context(), id, mealID)
	if err != nil {
		respond.Error(w, h.service.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTO(plan))
}
