package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/blob"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultPresignTTL = 3600

// Service exports the whole entity graph to a blob store.
type Service struct {
	store  storage.Storage
	blob   blob.Store
	logger logrus.FieldLogger
	now    func() time.Time
	ttl    int // presigned URL lifetime, seconds
}

// NewService creates a new snapshot service
func NewService(store storage.Storage, blobStore blob.Store, logger logrus.FieldLogger) *Service {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Service{
		store:  store,
		blob:   blobStore,
		logger: logger.WithField("component", "snapshots"),
		now:    func() time.Time { return time.Now().UTC() },
		ttl:    defaultPresignTTL,
	}
}

// WithPresignTTL sets the lifetime of the returned download URL.
func (s *Service) WithPresignTTL(seconds int) *Service {
	if seconds > 0 {
		s.ttl = seconds
	}
	return s
}

// Collect reads every document of every kind.
func (s *Service) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: s.now()}

	var err error
	if snap.RawFoods, err = collect(ctx, s.store.RawFoods(), rawFoodRecord); err != nil {
		return nil, err
	}
	if snap.Foods, err = collect(ctx, s.store.Foods(), foodRecord); err != nil {
		return nil, err
	}
	if snap.Meals, err = collect(ctx, s.store.Meals(), mealRecord); err != nil {
		return nil, err
	}
	if snap.DailyPlans, err = collect(ctx, s.store.DailyPlans(), dailyPlanRecord); err != nil {
		return nil, err
	}
	if snap.Restaurants, err = collect(ctx, s.store.Restaurants(), restaurantRecord); err != nil {
		return nil, err
	}
	if snap.GroceryStores, err = collect(ctx, s.store.GroceryStores(), groceryStoreRecord); err != nil {
		return nil, err
	}
	return snap, nil
}

// Export collects, encodes and uploads a snapshot.
func (s *Service) Export(ctx context.Context, format string) (*Result, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, apperr.New(apperr.KindValidation, "format must be %q or %q", FormatJSON, FormatYAML)
	}

	snap, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}

	data, contentType, err := Encode(snap, format)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	key := fmt.Sprintf("snapshots/%s_%s.%s", snap.TakenAt.Format("20060102T150405Z"), uuid.New().String(), format)
	size, err := s.blob.PutObject(ctx, key, data, contentType)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to upload snapshot: %w", err))
	}

	result := &Result{
		Key:    key,
		Format: format,
		Size:   size,
		Counts: snap.counts(),
	}
	if url, err := s.blob.PresignGet(ctx, key, s.ttl); err == nil {
		result.URL = url
	} else {
		s.logger.WithError(err).WithField("key", key).Warn("presign failed")
	}

	s.logger.WithFields(logrus.Fields{
		"key":    key,
		"size":   size,
		"format": format,
	}).Info("snapshot exported")
	return result, nil
}

// Encode serializes snap in the given format.
func Encode(snap *Snapshot, format string) ([]byte, string, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, "", fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), "application/yaml", nil
	default:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode json: %w", err)
		}
		return data, "application/json", nil
	}
}

func (snap *Snapshot) counts() map[string]int {
	return map[string]int{
		"raw_food":      len(snap.RawFoods),
		"food":          len(snap.Foods),
		"meal":          len(snap.Meals),
		"daily_plan":    len(snap.DailyPlans),
		"restaurant":    len(snap.Restaurants),
		"grocery_store": len(snap.GroceryStores),
	}
}

// collect reads active then deleted documents of one kind.
func collect[T, R any](ctx context.Context, store storage.Store[T], record func(*T) R) ([]R, error) {
	out := []R{}
	for _, filter := range []storage.Filter{storage.Active(), storage.Deleted()} {
		docs, err := store.Find(ctx, filter)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		for i := range docs {
			out = append(out, record(&docs[i]))
		}
	}
	return out, nil
}
