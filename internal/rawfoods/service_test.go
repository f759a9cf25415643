package rawfoods

import (
	"context"
	"strings"
	"testing"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/storage/memory"
	"github.com/google/uuid"
)

func newTestService() *Service {
	return NewService(memory.New().RawFoods(), lifecycle.Options{})
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateRawFoodRequest
		wantKind apperr.Kind
	}{
		{"valid", CreateRawFoodRequest{Name: "Oats", Protein: 13, Carb: 68, Fat: 7, Calories: 389}, ""},
		{"zero values", CreateRawFoodRequest{Name: "Water"}, ""},
		{"missing name", CreateRawFoodRequest{Protein: 1}, apperr.KindValidation},
		{"long name", CreateRawFoodRequest{Name: strings.Repeat("x", 101)}, apperr.KindInvalidRawFood},
		{"negative protein", CreateRawFoodRequest{Name: "Bad", Protein: -1}, apperr.KindInvalidRawFood},
		{"negative calories", CreateRawFoodRequest{Name: "Bad", Calories: -0.5}, apperr.KindInvalidRawFood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			raw, err := svc.Create(context.Background(), tt.req)

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if raw.ID == uuid.Nil || raw.IsDeleted || raw.Name != tt.req.Name {
					t.Fatalf("unexpected raw food: %+v", raw)
				}
				return
			}
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("expected %s, got %v", tt.wantKind, err)
			}
			if all, _ := svc.GetAll(context.Background()); len(all) != 0 {
				t.Fatal("rejected raw food was stored")
			}
		})
	}
}

func TestUpdateByIDPartial(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	raw, err := svc.Create(ctx, CreateRawFoodRequest{Name: "Rice", Protein: 7, Carb: 80, Fat: 1, Calories: 360})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateByID(ctx, raw.ID, UpdateRawFoodRequest{Fat: ptr(0.5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Rice" || updated.Values.Protein != 7 || updated.Values.Fat != 0.5 {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}

	if _, err := svc.UpdateByID(ctx, raw.ID, UpdateRawFoodRequest{Carb: ptr(-3.0)}); !apperr.Is(err, apperr.KindInvalidRawFood) {
		t.Fatalf("expected InvalidRawFood, got %v", err)
	}
	if _, err := svc.UpdateByID(ctx, raw.ID, UpdateRawFoodRequest{Name: ptr("")}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := svc.UpdateByID(ctx, raw.ID, UpdateRawFoodRequest{Name: ptr(strings.Repeat("y", 101))}); !apperr.Is(err, apperr.KindInvalidRawFood) {
		t.Fatalf("expected InvalidRawFood, got %v", err)
	}

	current, _ := svc.GetByID(ctx, raw.ID)
	if current.Values.Carb != 80 || current.Version != 2 {
		t.Fatalf("rejected update leaked: %+v", current)
	}
}

func TestUpdateByIDNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.UpdateByID(ctx, uuid.New(), UpdateRawFoodRequest{}); !apperr.Is(err, apperr.KindRawFoodNotFound) {
		t.Fatalf("expected RawFoodNotFound, got %v", err)
	}

	raw, _ := svc.Create(ctx, CreateRawFoodRequest{Name: "Milk"})
	if _, err := svc.DeleteByID(ctx, raw.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.UpdateByID(ctx, raw.ID, UpdateRawFoodRequest{Fat: ptr(1.0)}); !apperr.Is(err, apperr.KindRawFoodNotFound) {
		t.Fatalf("expected RawFoodNotFound for deleted raw food, got %v", err)
	}
}

func TestRatesOfIgnoresDeletedFlag(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	raw, _ := svc.Create(ctx, CreateRawFoodRequest{Name: "Egg", Protein: 13, Fat: 11, Calories: 155})
	svc.DeleteByID(ctx, raw.ID)

	rates, ok, err := svc.RatesOf(ctx, raw.ID)
	if err != nil || !ok || rates.Protein != 13 {
		t.Fatalf("unexpected rates %+v ok=%v err=%v", rates, ok, err)
	}
	if _, ok, _ := svc.RatesOf(ctx, uuid.New()); ok {
		t.Fatal("expected unknown id to be reported missing")
	}
}
