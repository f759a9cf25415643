package httpserver

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/blob"
	"github.com/fdg312/nutrition-hub/internal/catalogs"
	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/dailyplans"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/foods"
	"github.com/fdg312/nutrition-hub/internal/lifecycle"
	"github.com/fdg312/nutrition-hub/internal/meals"
	"github.com/fdg312/nutrition-hub/internal/rawfoods"
	"github.com/fdg312/nutrition-hub/internal/repair"
	"github.com/fdg312/nutrition-hub/internal/reports"
	"github.com/fdg312/nutrition-hub/internal/snapshots"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/fdg312/nutrition-hub/internal/storage/memory"
	"github.com/fdg312/nutrition-hub/internal/storage/postgres"
	"github.com/sirupsen/logrus"
)

// Services wires every entity service on top of one storage.
type Services struct {
	RawFoods      *rawfoods.Service
	Foods         *foods.Service
	Meals         *meals.Service
	DailyPlans    *dailyplans.Service
	Restaurants   *catalogs.RestaurantService
	GroceryStores *catalogs.GroceryStoreService
	Repair        *repair.Service
	Snapshots     *snapshots.Service
	Reports       *reports.Generator
}

// NewServices builds the service graph. blobStore may be nil when snapshots
// are not needed.
func NewServices(cfg *config.Config, store storage.Storage, blobStore blob.Store, publisher events.Publisher, logger logrus.FieldLogger) *Services {
	opts := lifecycle.Options{
		Logger:      logger,
		Events:      publisher,
		Retries:     cfg.MutationRetries,
		Concurrency: cfg.ValidationConcurrency,
	}

	s := &Services{}
	s.RawFoods = rawfoods.NewService(store.RawFoods(), opts)
	s.Foods = foods.NewService(store.Foods(), s.RawFoods, opts)
	s.Meals = meals.NewService(store.Meals(), s.Foods, opts)
	s.DailyPlans = dailyplans.NewService(store.DailyPlans(), s.Meals, opts)
	s.Restaurants = catalogs.NewRestaurantService(store.Restaurants(), s.Foods, s.Meals, opts)
	s.GroceryStores = catalogs.NewGroceryStoreService(store.GroceryStores(), s.Foods, opts)
	s.Repair = repair.NewService(s.RawFoods, s.Foods, s.Meals, s.DailyPlans, logger)
	s.Snapshots = snapshots.NewService(store, blobStore, logger).WithPresignTTL(cfg.Blob.S3.PresignTTLSeconds)
	s.Reports = reports.NewGenerator(s.DailyPlans, s.Meals)
	return s
}

// OpenStorage connects to Postgres when a database URL is configured and
// falls back to in-memory storage otherwise.
func OpenStorage(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) storage.Storage {
	if cfg.DatabaseURL == "" {
		logger.Info("storage: in-memory")
		return memory.New()
	}

	logger.Info("storage: connecting to PostgreSQL")
	pgStorage, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Warn("storage: PostgreSQL unavailable, fallback to in-memory")
		return memory.New()
	}
	logger.Info("storage: PostgreSQL connected")
	return pgStorage
}
