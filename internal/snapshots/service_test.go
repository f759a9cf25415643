package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/blob"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/fdg312/nutrition-hub/internal/storage/memory"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type failingBlob struct{}

func (failingBlob) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	return 0, errors.New("bucket unavailable")
}
func (failingBlob) GetObject(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("bucket unavailable")
}
func (failingBlob) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	return "", errors.New("bucket unavailable")
}
func (failingBlob) DeleteObject(ctx context.Context, key string) error {
	return errors.New("bucket unavailable")
}

func seed(t *testing.T) *memory.MemoryStorage {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	oats := &storage.RawFood{Base: storage.Base{Name: "Oats"}, Values: nutrition.Values{Protein: 13, Carb: 68, Fat: 7, Calories: 389}}
	milk := &storage.RawFood{Base: storage.Base{Name: "Milk"}, Values: nutrition.Values{Protein: 3, Carb: 5, Fat: 3, Calories: 60}}
	for _, r := range []*storage.RawFood{oats, milk} {
		if err := store.RawFoods().Save(ctx, r); err != nil {
			t.Fatalf("save raw food: %v", err)
		}
	}
	milk.IsDeleted = true
	if err := store.RawFoods().Save(ctx, milk); err != nil {
		t.Fatalf("delete raw food: %v", err)
	}

	food := &storage.Food{
		Base:        storage.Base{Name: "Porridge"},
		Ingredients: []storage.Ingredient{{RawFoodID: oats.ID, Quantity: 50}, {RawFoodID: milk.ID, Quantity: 200}},
	}
	if err := store.Foods().Save(ctx, food); err != nil {
		t.Fatalf("save food: %v", err)
	}
	meal := &storage.Meal{Base: storage.Base{Name: "Breakfast"}, FoodIDs: []uuid.UUID{food.ID}}
	if err := store.Meals().Save(ctx, meal); err != nil {
		t.Fatalf("save meal: %v", err)
	}
	plan := &storage.DailyPlan{Base: storage.Base{Name: "Monday"}, MealIDs: []uuid.UUID{meal.ID}}
	if err := store.DailyPlans().Save(ctx, plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	if err := store.Restaurants().Save(ctx, &storage.Restaurant{Base: storage.Base{Name: "Diner"}, FoodIDs: []uuid.UUID{food.ID}}); err != nil {
		t.Fatalf("save restaurant: %v", err)
	}
	return store
}

func TestCollectIncludesDeleted(t *testing.T) {
	svc := NewService(seed(t), nil, nil)

	snap, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(snap.RawFoods) != 2 {
		t.Fatalf("expected 2 raw foods, got %d", len(snap.RawFoods))
	}
	deleted := 0
	for _, r := range snap.RawFoods {
		if r.IsDeleted {
			deleted++
			if r.Name != "Milk" {
				t.Fatalf("unexpected deleted raw food %q", r.Name)
			}
		}
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted raw food, got %d", deleted)
	}
	if len(snap.Foods[0].Ingredients) != 2 || len(snap.Meals[0].Foods) != 1 || len(snap.DailyPlans[0].Meals) != 1 {
		t.Fatalf("references not exported: %+v", snap)
	}
	if snap.GroceryStores == nil || len(snap.GroceryStores) != 0 {
		t.Fatalf("expected empty grocery store list, got %v", snap.GroceryStores)
	}
}

func TestExportWritesYAMLToBlobStore(t *testing.T) {
	ctx := context.Background()
	local, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	svc := NewService(seed(t), local, nil)

	result, err := svc.Export(ctx, FormatYAML)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(result.Key, "snapshots/") || !strings.HasSuffix(result.Key, ".yaml") {
		t.Fatalf("unexpected key %q", result.Key)
	}
	if result.Counts["raw_food"] != 2 || result.Counts["restaurant"] != 1 {
		t.Fatalf("unexpected counts %v", result.Counts)
	}

	data, err := local.GetObject(ctx, result.Key)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if int64(len(data)) != result.Size {
		t.Fatalf("size mismatch: %d vs %d", len(data), result.Size)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(snap.Foods) != 1 || snap.Foods[0].Name != "Porridge" || snap.Foods[0].Ingredients[0].Quantity != 50 {
		t.Fatalf("unexpected foods %+v", snap.Foods)
	}
}

func TestExportDefaultsToJSON(t *testing.T) {
	ctx := context.Background()
	local, _ := blob.NewLocalStore(t.TempDir())
	svc := NewService(seed(t), local, nil)

	result, err := svc.Export(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, _ := local.GetObject(ctx, result.Key)

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if snap.Meals[0].Name != "Breakfast" {
		t.Fatalf("unexpected meals %+v", snap.Meals)
	}
}

func TestExportErrors(t *testing.T) {
	svc := NewService(seed(t), failingBlob{}, nil)

	_, err := svc.Export(context.Background(), "xml")
	if apperr.From(err).Name != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Export(context.Background(), FormatJSON)
	if apperr.From(err).Name != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestHandleExport(t *testing.T) {
	local, _ := blob.NewLocalStore(t.TempDir())
	h := NewHandler(NewService(seed(t), local, nil))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/snapshots?format=yaml", nil)
	rr := httptest.NewRecorder()
	h.HandleExport(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var result Result
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Format != FormatYAML || result.Size == 0 || !strings.HasPrefix(result.URL, "file://") {
		t.Fatalf("unexpected result %+v", result)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/snapshots?format=toml", nil)
	rr = httptest.NewRecorder()
	h.HandleExport(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

type presignRecorder struct {
	*blob.LocalStore
	ttl int
}

func (p *presignRecorder) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	p.ttl = ttlSeconds
	return "https://blob.example.com/" + key, nil
}

func TestExportUsesConfiguredPresignTTL(t *testing.T) {
	local, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	rec := &presignRecorder{LocalStore: local}

	result, err := NewService(seed(t), rec, nil).WithPresignTTL(900).Export(context.Background(), FormatJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if rec.ttl != 900 {
		t.Fatalf("presign ttl %d, want 900", rec.ttl)
	}
	if result.URL != "https://blob.example.com/"+result.Key {
		t.Fatalf("unexpected url %q", result.URL)
	}
}
