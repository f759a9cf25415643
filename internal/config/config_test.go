package config

import (
	"strings"
	"testing"
)

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Env != "local" {
		t.Errorf("expected env=local, got %q", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port=8080, got %d", cfg.Port)
	}
	if cfg.AuthMode != AuthModeNone || cfg.AuthRequired {
		t.Errorf("expected auth disabled, got mode=%q required=%t", cfg.AuthMode, cfg.AuthRequired)
	}
	if cfg.MutationRetries != 3 {
		t.Errorf("expected 3 mutation retries, got %d", cfg.MutationRetries)
	}
	if cfg.ValidationConcurrency != 8 {
		t.Errorf("expected validation concurrency 8, got %d", cfg.ValidationConcurrency)
	}
	if cfg.Blob.Mode != BlobModeLocal || cfg.Blob.SnapshotDir != "snapshots" {
		t.Errorf("unexpected blob config: %+v", cfg.Blob)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("expected localhost CORS origins in local env, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadDatabasePriority(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://url")
	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")
	t.Setenv("DATABASE_URL_DIRECT", "postgres://direct")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://pooled" {
		t.Fatalf("expected pooled URL at runtime, got %q", cfg.DatabaseURL)
	}
	if cfg.DatabaseURLDirect != "postgres://direct" || cfg.DatabaseURLRaw != "postgres://url" {
		t.Fatalf("raw URLs not preserved: %+v", cfg)
	}
}

func TestLoadAuthRequiredOnlyWithMode(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "1")

	if Load().AuthRequired {
		t.Fatal("AUTH_REQUIRED must be ignored when AUTH_MODE=none")
	}

	t.Setenv("AUTH_MODE", "dev")
	if !Load().AuthRequired {
		t.Fatal("expected AUTH_REQUIRED to apply in dev mode")
	}
}

func TestLoadFallbacks(t *testing.T) {
	t.Setenv("AUTH_MODE", "siwa")
	t.Setenv("BLOB_MODE", "ftp")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("MUTATION_RETRIES", "-1")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	if cfg.AuthMode != AuthModeNone {
		t.Errorf("expected unknown auth mode to fall back to none, got %q", cfg.AuthMode)
	}
	if cfg.Blob.Mode != BlobModeLocal {
		t.Errorf("expected unknown blob mode to fall back to local, got %q", cfg.Blob.Mode)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("expected text log format, got %q", cfg.LogFormat)
	}
	if cfg.MutationRetries != 3 {
		t.Errorf("expected retries fallback 3, got %d", cfg.MutationRetries)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("expected no CORS origins outside local, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestParseCORSOrigins(t *testing.T) {
	got := parseCORSOrigins(" https://a.example , ,https://b.example", "production")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
