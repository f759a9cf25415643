package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewUsesDefaultMessage(t *testing.T) {
	err := New(KindFoodNotFound, "")
	if err.Message != "Food with given id not found" {
		t.Fatalf("unexpected message: %q", err.Message)
	}
	if err.Error() != "FoodNotFound: Food with given id not found" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}

func TestWrapKeepsCauseReachable(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, cause, "")

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
	if err.Message != defaultMessages[KindInternal] {
		t.Fatalf("unexpected message: %q", err.Message)
	}
}

func TestIsSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("save meal: %w", New(KindMealNotFound, "meal %s not found", "m1"))

	if !Is(err, KindMealNotFound) {
		t.Fatal("expected MealNotFound")
	}
	if Is(err, KindFoodNotFound) {
		t.Fatal("did not expect FoodNotFound")
	}
}

func TestFromNormalizesForeignErrors(t *testing.T) {
	if From(nil) != nil {
		t.Fatal("expected nil for nil input")
	}

	got := From(errors.New("boom"))
	if got.Name != KindInternal {
		t.Fatalf("expected InternalError, got %s", got.Name)
	}

	orig := New(KindValidation, "name is required")
	if From(orig) != orig {
		t.Fatal("expected the same *Error to be returned")
	}
}
