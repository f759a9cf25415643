package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/logging"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/fdg312/nutrition-hub/internal/storage/memory"
	"github.com/fdg312/nutrition-hub/internal/storage/postgres"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	useMemory bool
)

var errNoDatabase = errors.New("DATABASE_URL is not set (pass --memory to run against an empty in-memory store)")

var rootCmd = &cobra.Command{
	Use:           "nutrictl",
	Short:         "nutrictl runs maintenance tasks against the nutrition hub store",
	Long:          "nutrictl repairs cached nutrition totals, exports snapshots and runs database migrations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at debug level")
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "Use an empty in-memory store instead of DATABASE_URL")
}

// env is what a command needs: config, logger and an open store.
type env struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  storage.Storage
	events events.Publisher
}

// openEnv never falls back to memory on its own: a maintenance run against
// the wrong store would report success without touching the database.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg := config.Load()

	logger := logging.Discard()
	if verbose {
		logger = logging.NewWithOutput(cfg, cmd.ErrOrStderr())
		logger.SetLevel(logrus.DebugLevel)
	}

	store, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		store:  store,
		events: events.New(cfg, logger),
	}, nil
}

func openStore(cmd *cobra.Command, cfg *config.Config) (storage.Storage, error) {
	if useMemory {
		return memory.New(), nil
	}
	if cfg.DatabaseURL == "" {
		return nil, errNoDatabase
	}
	store, err := postgres.New(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	return store, nil
}

func (e *env) Close() {
	if closer, ok := e.events.(io.Closer); ok {
		closer.Close()
	}
	e.store.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
