package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable error name reported to clients.
type Kind string

const (
	KindInternal               Kind = "InternalError"
	KindValidation             Kind = "ValidationError"
	KindInvalidRawFood         Kind = "InvalidRawFood"
	KindInvalidIngredient      Kind = "InvalidIngredient"
	KindInstanceNotFound       Kind = "InstanceNotFound"
	KindRawFoodNotFound        Kind = "RawFoodNotFound"
	KindFoodNotFound           Kind = "FoodNotFound"
	KindMealNotFound           Kind = "MealNotFound"
	KindDailyPlanNotFound      Kind = "DailyPlanNotFound"
	KindIngredientNotFound     Kind = "IngredientNotFound"
	KindRestaurantNotFound     Kind = "RestaurantNotFound"
	KindGroceryStoreNotFound   Kind = "GroceryStoreNotFound"
	KindFoodAlreadyExists      Kind = "FoodAlreadyExists"
	KindMealAlreadyExists      Kind = "MealAlreadyExists"
	KindConcurrentModification Kind = "ConcurrentModification"
)

var defaultMessages = map[Kind]string{
	KindInternal:               "Internal error occurred while processing the request",
	KindValidation:             "Validation error",
	KindInvalidRawFood:         "Given raw food is invalid",
	KindInvalidIngredient:      "Invalid ingredient",
	KindInstanceNotFound:       "Instance with given id not found",
	KindRawFoodNotFound:        "Raw food with given id not found",
	KindFoodNotFound:           "Food with given id not found",
	KindMealNotFound:           "Meal with given id not found",
	KindDailyPlanNotFound:      "Daily plan with given id not found",
	KindIngredientNotFound:     "Ingredient with given id not found in list",
	KindRestaurantNotFound:     "Restaurant with given id not found",
	KindGroceryStoreNotFound:   "Grocery store with given id not found",
	KindFoodAlreadyExists:      "Food with given id already exists in list",
	KindMealAlreadyExists:      "Meal with given id already exists in list",
	KindConcurrentModification: "Document was modified concurrently, retry the request",
}

// Error is the single error shape returned by every service operation.
type Error struct {
	Name    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an error of the given kind. An empty format falls back to the
// default message of the kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Name: kind, Message: message(kind, format, args...)}
}

// Wrap is New with a cause attached.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Name: kind, Message: message(kind, format, args...), Cause: cause}
}

// Internal wraps an unexpected failure, typically from the store.
func Internal(cause error) *Error {
	return Wrap(KindInternal, cause, "")
}

// As extracts *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Name == kind
}

// From normalizes any error into *Error; foreign errors become InternalError.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return Internal(err)
}

func message(kind Kind, format string, args ...any) string {
	if format == "" {
		if msg, ok := defaultMessages[kind]; ok {
			return msg
		}
		return string(kind)
	}
	return fmt.Sprintf(format, args...)
}
