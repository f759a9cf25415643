package rawfoods

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

// Service manages raw foods, the leaves of the hierarchy.
type Service struct {
	*lifecycle.Service[storage.RawFood, *storage.RawFood]
}

// NewService creates a new raw food service.
func NewService(store storage.Store[storage.RawFood], opts lifecycle.Options) *Service {
	return &Service{
		Service: lifecycle.New[storage.RawFood]("raw_food", "Raw food", store, opts),
	}
}

// Create validates and stores a new raw food.
func (s *Service) Create(ctx context.Context, req CreateRawFoodRequest) (*storage.RawFood, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}
	if err := validate(req.Name, req.values()); err != nil {
		return nil, err
	}

	return s.Service.Create(ctx, &storage.RawFood{
		Base:   storage.Base{Name: req.Name},
		Values: req.values(),
	})
}

// UpdateByID applies the present fields of req to an active raw food.
// Foods that already reference it keep their cached totals.
func (s *Service) UpdateByID(ctx context.Context, id uuid.UUID, req UpdateRawFoodRequest) (*storage.RawFood, error) {
	notFound := apperr.New(apperr.KindRawFoodNotFound, "Raw food with id %s not found", id)

	return s.Update(ctx, id, notFound, func(r *storage.RawFood) error {
		name := r.Name
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return apperr.New(apperr.KindValidation, "name must not be empty")
			}
			name = *req.Name
		}
		values := req.apply(r.Values)

		if err := validate(name, values); err != nil {
			return err
		}
		r.Name = name
		r.Values = values
		return nil
	})
}

// RatesOf returns the per-100 rates of a raw food whatever its deleted flag.
// ok is false when the id was never stored.
func (s *Service) RatesOf(ctx context.Context, id uuid.UUID) (nutrition.Values, bool, error) {
	r, ok, err := s.FindAny(ctx, id)
	if err != nil || !ok {
		return nutrition.Values{}, ok, err
	}
	return r.Values, true, nil
}

func validate(name string, v nutrition.Values) error {
	if utf8.RuneCountInString(name) > lifecycle.MaxNameLength {
		return apperr.New(apperr.KindInvalidRawFood, "name must be at most %d characters", lifecycle.MaxNameLength)
	}
	if v.HasNegative() {
		return apperr.New(apperr.KindInvalidRawFood, "nutritional values cannot be negative")
	}
	return nil
}
