package catalogs

import (
	"context"
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Handler handles HTTP requests for restaurants and grocery stores.
type Handler struct {
	restaurants   *RestaurantService
	groceryStores *GroceryStoreService
}

// NewHandler creates a new catalogs handler.
func NewHandler(restaurants *RestaurantService, groceryStores *GroceryStoreService) *Handler {
	return &Handler{restaurants: restaurants, groceryStores: groceryStores}
}

// Register mounts the restaurant and grocery store routes.
func (h *Handler) Register(mux *http.ServeMux) {
	lifecycle.NewHandler(h.restaurants.Service, RestaurantToDTO).Register(mux, "/v1/restaurants")
	mux.HandleFunc("POST /v1/restaurants", h.HandleCreateRestaurant)
	mux.HandleFunc("POST /v1/restaurants/{id}/foods", h.memberRoute(h.restaurants.Logger(), foodParam, h.restaurantOp(h.restaurants.AddFood)))
	mux.HandleFunc("DELETE /v1/restaurants/{id}/foods/{memberId}", h.memberRoute(h.restaurants.Logger(), nil, h.restaurantOp(h.restaurants.RemoveFood)))
	mux.HandleFunc("POST /v1/restaurants/{id}/meals", h.memberRoute(h.restaurants.Logger(), mealParam, h.restaurantOp(h.restaurants.AddMeal)))
	mux.HandleFunc("DELETE /v1/restaurants/{id}/meals/{memberId}", h.memberRoute(h.restaurants.Logger(), nil, h.restaurantOp(h.restaurants.RemoveMeal)))

	lifecycle.NewHandler(h.groceryStores.Service, GroceryStoreToDTO).Register(mux, "/v1/grocery-stores")
	mux.HandleFunc("POST /v1/grocery-stores", h.HandleCreateGroceryStore)
	mux.HandleFunc("POST /v1/grocery-stores/{id}/foods", h.memberRoute(h.groceryStores.Logger(), foodParam, h.groceryStoreOp(h.groceryStores.AddFood)))
	mux.HandleFunc("DELETE /v1/grocery-stores/{id}/foods/{memberId}", h.memberRoute(h.groceryStores.Logger(), nil, h.groceryStoreOp(h.groceryStores.RemoveFood)))
}

// HandleCreateRestaurant handles POST /v1/restaurants
func (h *Handler) HandleCreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req CreateRestaurantRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	restaurant, err := h.restaurants.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, h.restaurants.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, RestaurantToDTO(restaurant))
}

// HandleCreateGroceryStore handles POST /v1/grocery-stores
func (h *Handler) HandleCreateGroceryStore(w http.ResponseWriter, r *http.Request) {
	var req CreateGroceryStoreRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, nil, err)
		return
	}

	store, err := h.groceryStores.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, h.groceryStores.Logger(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, GroceryStoreToDTO(store))
}

// memberOp mutates the membership list of one parent and returns its DTO.
type memberOp func(ctx context.Context, id, memberID uuid.UUID) (any, error)

// memberParam reads the member id from the request body.
type memberParam func(r *http.Request) (uuid.UUID, error)

func foodParam(r *http.Request) (uuid.UUID, error) {
	var req FoodRequest
	if err := respond.Decode(r, &req); err != nil {
		return uuid.Nil, err
	}
	if req.Food == nil {
		return uuid.Nil, apperr.New(apperr.KindValidation, "food is missing in request")
	}
	return *req.Food, nil
}

func mealParam(r *http.Request) (uuid.UUID, error) {
	var req MealRequest
	if err := respond.Decode(r, &req); err != nil {
		return uuid.Nil, err
	}
	if req.Meal == nil {
		return uuid.Nil, apperr.New(apperr.KindValidation, "meal is missing in request")
	}
	return *req.Meal, nil
}

// memberRoute builds a handler for add (member id in body) and remove
// (member id in path, param == nil) routes.
func (h *Handler) memberRoute(logger logrus.FieldLogger, param memberParam, op memberOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.PathID(r, "id")
		if err != nil {
			respond.Error(w, nil, err)
			return
		}

		var memberID uuid.UUID
		if param != nil {
			memberID, err = param(r)
		} else {
			memberID, err = respond.PathID(r, "memberId")
		}
		if err != nil {
			respond.Error(w, nil, err)
			return
		}

		dto, err := op(r.Context(), id, memberID)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, dto)
	}
}

func (h *Handler) restaurantOp(fn func(context.Context, uuid.UUID, uuid.UUID) (*storage.Restaurant, error)) memberOp {
	return func(ctx context.Context, id, memberID uuid.UUID) (any, error) {
		restaurant, err := fn(ctx, id, memberID)
		if err != nil {
			return nil, err
		}
		return RestaurantToDTO(restaurant), nil
	}
}

func (h *Handler) groceryStoreOp(fn func(context.Context, uuid.UUID, uuid.UUID) (*storage.GroceryStore, error)) memberOp {
	return func(ctx context.Context, id, memberID uuid.UUID) (any, error) {
		store, err := fn(ctx, id, memberID)
		if err != nil {
			return nil, err
		}
		return GroceryStoreToDTO(store), nil
	}
}
