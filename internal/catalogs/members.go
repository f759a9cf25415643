package catalogs

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/google/uuid"
)

// Members checks references to one entity kind.
type Members interface {
	Exists(ctx context.Context, id uuid.UUID) bool
	FindInvalidElement(ctx context.Context, ids []uuid.UUID) int
}

// memberKind describes one referenced kind for error reporting.
type memberKind struct {
	label    string
	notFound apperr.Kind
	already  apperr.Kind
}

var (
	foodMember = memberKind{label: "Food", notFound: apperr.KindFoodNotFound, already: apperr.KindFoodAlreadyExists}
	mealMember = memberKind{label: "Meal", notFound: apperr.KindMealNotFound, already: apperr.KindMealAlreadyExists}
)

// checkAll validates the initial members of a list.
func (k memberKind) checkAll(ctx context.Context, src Members, ids []uuid.UUID) error {
	if id, dup := lifecycle.FirstDuplicate(ids); dup {
		return apperr.New(k.already, "%s with id %s is listed more than once", k.label, id)
	}
	if idx := src.FindInvalidElement(ctx, ids); idx >= 0 {
		return apperr.New(k.notFound, "%s with id %s doesn't exist", k.label, ids[idx])
	}
	return nil
}

// add appends id to list if it refers to an active document not yet present.
func (k memberKind) add(ctx context.Context, src Members, list []uuid.UUID, id uuid.UUID, owner string) ([]uuid.UUID, error) {
	if !src.Exists(ctx, id) {
		return nil, apperr.New(k.notFound, "%s with id %s doesn't exist", k.label, id)
	}
	if lifecycle.Contains(list, id) {
		return nil, apperr.New(k.already, "%s with id %s already exists in %s", k.label, id, owner)
	}
	return append(list, id), nil
}

// remove drops id from list. Membership is all that is checked, so
// references to soft-deleted documents can still be cleaned up.
func (k memberKind) remove(list []uuid.UUID, id uuid.UUID, owner string) ([]uuid.UUID, error) {
	idx := lifecycle.IndexOf(list, id)
	if idx < 0 {
		return nil, apperr.New(k.notFound, "%s with id %s doesn't exist in %s", k.label, id, owner)
	}
	return append(list[:idx], list[idx+1:]...), nil
}
