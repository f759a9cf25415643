package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

func TestWhereClause(t *testing.T) {
	tbl := newMealsTable(nil)

	where, args := tbl.where(storage.Active())
	if where != "WHERE is_deleted = $1" || len(args) != 1 || args[0] != false {
		t.Fatalf("unexpected active clause: %q %v", where, args)
	}

	id := uuid.New()
	where, args = tbl.where(storage.DeletedByID(id))
	if where != "WHERE is_deleted = $1 AND id = $2" || len(args) != 2 || args[0] != true || args[1] != id {
		t.Fatalf("unexpected deleted-by-id clause: %q %v", where, args)
	}
}

func TestSelectListOrder(t *testing.T) {
	tbl := newFoodsTable(nil)
	want := "id, name, is_deleted, version, created_at, updated_at, ingredients, total_protein, total_carb, total_fat, total_calories, total_quantity"
	if got := tbl.selectList(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	food := &storage.Food{}
	if len(tbl.args(food)) != len(tbl.columns) || len(tbl.dest(food)) != len(tbl.columns) {
		t.Fatal("args/dest must line up with columns")
	}
}

// TestFoodsRoundTrip runs against a migrated database when TEST_DATABASE_URL is set.
func TestFoodsRoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	ps, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ps.Close()

	food := &storage.Food{
		Base:        storage.Base{Name: "Roundtrip"},
		Ingredients: []storage.Ingredient{{RawFoodID: uuid.New(), Quantity: 120}},
		Total:       nutrition.Total{Values: nutrition.Values{Protein: 12}, Quantity: 120},
	}
	if err := ps.Foods().Save(ctx, food); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := ps.Foods().FindOne(ctx, storage.ActiveByID(food.ID))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Quantity != 120 || got.Total.Quantity != 120 {
		t.Fatalf("unexpected food: %+v", got)
	}

	stale := *got
	got.Name = "Roundtrip v2"
	if err := ps.Foods().Save(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := ps.Foods().Save(ctx, &stale); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}
