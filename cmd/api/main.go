package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/dbmigrate"
	"github.com/fdg312/nutrition-hub/internal/httpserver"
	"github.com/fdg312/nutrition-hub/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg)

	printStartupBanner(logger, cfg)

	if cfg.RunMigrationsOnStartup {
		target, err := dbmigrate.SelectTarget(cfg, true)
		if err != nil {
			logger.Fatalf("startup migrations: %v", err)
		}

		logger.Infof("startup migrations: command=up using=%s", target.Source)
		if err := dbmigrate.Run("up", target, dbmigrate.DefaultMigrationsDir, logger); err != nil {
			logger.Fatalf("startup migrations failed: %v", err)
		}
		logger.Info("startup migrations: completed")
	}

	validateProductionConfig(logger, cfg)

	server := httpserver.New(cfg, logger)
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("graceful shutdown failed")
		}
	}
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(logger *logrus.Logger, cfg *config.Config) {
	logger.Info("========== Nutrition Hub API ==========")
	logger.Infof("  env              = %s", cfg.Env)
	logger.Infof("  port             = %d", cfg.Port)
	logger.Infof("  log              = %s/%s", cfg.LogLevel, cfg.LogFormat)

	// ---- Database ----
	logger.Info("---- database ----")
	logger.Infof("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	logger.Infof("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	logger.Infof("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	logger.Infof("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	logger.Infof("  mutation_retries = %d", cfg.MutationRetries)
	logger.Infof("  validation_concurrency = %d", cfg.ValidationConcurrency)

	// ---- Auth ----
	logger.Info("---- auth ----")
	logger.Infof("  auth_mode        = %s", cfg.AuthMode)
	logger.Infof("  auth_required    = %t", cfg.AuthRequired)
	logger.Infof("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	// ---- Blob / S3 ----
	logger.Info("---- blob ----")
	logger.Infof("  blob_mode        = %s", cfg.Blob.Mode)
	logger.Infof("  snapshot_dir     = %s", nonEmptyOrDash(cfg.Blob.SnapshotDir))
	if cfg.Blob.Mode != config.BlobModeLocal {
		logger.Infof("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	// ---- Events / log shipping ----
	logger.Info("---- events ----")
	logger.Infof("  amqp_url         = %s", setOrNot(cfg.AMQPURL))
	logger.Infof("  amqp_exchange    = %s", nonEmptyOrDash(cfg.AMQPExchange))
	logger.Infof("  logstash         = %s", nonEmptyOrDash(cfg.LogstashAddr))
	logger.Infof("  elastic          = %s", setOrNot(cfg.ElasticURL))

	logger.Info("=======================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(logger *logrus.Logger, cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			logger.Fatalf("blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		logger.Fatalf("auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	if isProd && cfg.DatabaseURL == "" {
		logger.Fatalf("db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
