package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	AuthModeNone = "none"
	AuthModeDev  = "dev"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

type BlobConfig struct {
	Mode        string // local|s3|auto
	SnapshotDir string // local mode root
	S3          S3Config
}

// Config содержит конфигурацию приложения
type Config struct {
	Env       string // local | staging | production
	Port      int
	LogLevel  string
	LogFormat string // text | json

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Snapshots
	Blob BlobConfig

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Change events
	AMQPURL      string
	AMQPExchange string

	// Log shipping
	LogstashAddr string
	ElasticURL   string
	ElasticIndex string

	// Aggregation
	MutationRetries       int
	ValidationConcurrency int

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения и необязательного config.yml
func Load() *Config {
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("WARNING: failed to read config.yml: %v", err)
		}
	}
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("BLOB_MODE", BlobModeLocal)
	v.SetDefault("SNAPSHOT_DIR", "snapshots")
	v.SetDefault("S3_PRESIGN_TTL_SECONDS", 900)
	v.SetDefault("AUTH_MODE", AuthModeNone)
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("JWT_ISSUER", "nutrition-hub")
	v.SetDefault("JWT_TTL_MINUTES", 10080)
	v.SetDefault("AMQP_EXCHANGE", "nutrition.events")
	v.SetDefault("ELASTIC_INDEX", "nutrition-hub")
	v.SetDefault("MUTATION_RETRIES", 3)
	v.SetDefault("VALIDATION_CONCURRENCY", 8)
}

// FromViper resolves the configuration from an already prepared viper instance.
func FromViper(v *viper.Viper) *Config {
	env := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	if env == "" {
		env = "local"
	}

	port := v.GetInt("PORT")
	if port <= 0 {
		port = 8080
	}

	logFormat := strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT")))
	if logFormat != "text" && logFormat != "json" {
		log.Printf("WARNING: unknown LOG_FORMAT=%q, fallback to text", logFormat)
		logFormat = "text"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(v.GetString("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	dbDirect := strings.TrimSpace(v.GetString("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- Blob / S3 ----------
	s3PresignTTL := v.GetInt("S3_PRESIGN_TTL_SECONDS")
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}
	blobCfg := BlobConfig{
		Mode:        parseBlobMode(v.GetString("BLOB_MODE"), BlobModeLocal),
		SnapshotDir: strings.TrimSpace(v.GetString("SNAPSHOT_DIR")),
		S3: S3Config{
			Endpoint:          strings.TrimSpace(v.GetString("S3_ENDPOINT")),
			Region:            strings.TrimSpace(v.GetString("S3_REGION")),
			Bucket:            strings.TrimSpace(v.GetString("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(v.GetString("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(v.GetString("S3_SECRET_ACCESS_KEY")),
			PresignTTLSeconds: s3PresignTTL,
		},
	}

	// ---------- Auth ----------
	authMode := strings.ToLower(strings.TrimSpace(v.GetString("AUTH_MODE")))
	if authMode != AuthModeNone && authMode != AuthModeDev {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to none", authMode)
		authMode = AuthModeNone
	}
	authRequired := authMode != AuthModeNone && parseBool(v.GetString("AUTH_REQUIRED"))

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	// ---------- Aggregation ----------
	retries := v.GetInt("MUTATION_RETRIES")
	if retries <= 0 {
		retries = 3
	}
	concurrency := v.GetInt("VALIDATION_CONCURRENCY")
	if concurrency <= 0 {
		concurrency = 8
	}

	return &Config{
		Env:       env,
		Port:      port,
		LogLevel:  strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat: logFormat,

		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   parseCORSOrigins(v.GetString("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: parseBool(v.GetString("CORS_ALLOW_CREDENTIALS")),

		RateLimitRPS:   v.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		Blob: blobCfg,

		AuthMode:      authMode,
		AuthRequired:  authRequired,
		JWTSecret:     jwtSecret,
		JWTIssuer:     v.GetString("JWT_ISSUER"),
		JWTTTLMinutes: v.GetInt("JWT_TTL_MINUTES"),

		AMQPURL:      strings.TrimSpace(v.GetString("AMQP_URL")),
		AMQPExchange: strings.TrimSpace(v.GetString("AMQP_EXCHANGE")),

		LogstashAddr: strings.TrimSpace(v.GetString("LOGSTASH_ADDR")),
		ElasticURL:   strings.TrimSpace(v.GetString("ELASTIC_URL")),
		ElasticIndex: strings.TrimSpace(v.GetString("ELASTIC_INDEX")),

		MutationRetries:       retries,
		ValidationConcurrency: concurrency,

		RunMigrationsOnStartup: parseBool(v.GetString("RUN_MIGRATIONS_ON_STARTUP")),
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(raw string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown BLOB_MODE=%q, fallback to %s", mode, defaultVal)
		return defaultVal
	}
}

func parseBool(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}
