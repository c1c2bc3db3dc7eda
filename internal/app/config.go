package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/yungbote/netinv-backend/internal/data/db"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
)

var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnv loads whichever of envFiles exist. Variables already set in the
// process environment win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if st, err := os.Stat(file); err == nil && !st.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

type DatabaseOptions struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port       string `env:"POSTGRES_PORT" envDefault:"5432"`
	User       string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password   string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name       string `env:"POSTGRES_NAME" envDefault:"netinv"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"netinv.db"`
}

func (d DatabaseOptions) Options() db.Options {
	return db.Options{
		Driver:     strings.ToLower(strings.TrimSpace(d.Driver)),
		Host:       d.Host,
		Port:       d.Port,
		User:       d.User,
		Password:   d.Password,
		Name:       d.Name,
		SQLitePath: d.SQLitePath,
	}
}

type ImportOptions struct {
	UploadDir      string `env:"IMPORT_UPLOAD_DIR" envDefault:"./data/uploads"`
	BatchSize      int    `env:"IMPORT_BATCH_SIZE" envDefault:"200"`
	ProgressEvery  int    `env:"IMPORT_PROGRESS_EVERY" envDefault:"25"`
	MaxConcurrent  int    `env:"IMPORT_MAX_CONCURRENT" envDefault:"2"`
	MaxQueued      int    `env:"IMPORT_MAX_QUEUED" envDefault:"16"`
	StrictSiteCode bool   `env:"IMPORT_STRICT_SITE_CODE" envDefault:"false"`
	MaxUploadBytes int64  `env:"IMPORT_MAX_UPLOAD_BYTES" envDefault:"67108864"`
	JobTableSize   int    `env:"IMPORT_JOB_TABLE_SIZE" envDefault:"1000"`
}

type ArtifactOptions struct {
	Store           string `env:"ARTIFACT_STORE" envDefault:"local"`
	Dir             string `env:"ARTIFACT_DIR" envDefault:"./data/artifacts"`
	Bucket          string `env:"GCS_BUCKET_NAME"`
	CredentialsJSON string `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	EmulatorHost    string `env:"STORAGE_EMULATOR_HOST"`
}

func (a ArtifactOptions) StorageConfig() storage.Config {
	return storage.Config{
		Mode:            storage.Mode(a.Store),
		LocalDir:        a.Dir,
		Bucket:          a.Bucket,
		EmulatorHost:    a.EmulatorHost,
		CredentialsJSON: a.CredentialsJSON,
	}.Normalize()
}

type ElevationOptions struct {
	URL     string        `env:"ELEVATION_API_URL"`
	Timeout time.Duration `env:"ELEVATION_TIMEOUT" envDefault:"3s"`
}

type RedisOptions struct {
	Addr    string `env:"REDIS_ADDR"`
	Channel string `env:"REDIS_CHANNEL" envDefault:"imports"`
}

type OpenTelemetryOptions struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"netinv-backend"`
	Environment string  `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	SampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"1"`
}

func (o OpenTelemetryOptions) OtelConfig(version string) observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     o.Enabled,
		ServiceName: o.ServiceName,
		Environment: o.Environment,
		Version:     version,
		Endpoint:    o.Endpoint,
		Headers:     o.Headers,
		Insecure:    o.Insecure,
		SampleRatio: o.SampleRatio,
	}
}

type Config struct {
	LogMode  string `env:"LOG_MODE" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
	Port     string `env:"PORT" envDefault:"8080"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`

	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`
	CORSOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Database  DatabaseOptions
	Import    ImportOptions
	Artifacts ArtifactOptions
	Elevation ElevationOptions
	Redis     RedisOptions
	Otel      OpenTelemetryOptions
}

// LoadConfig reads envFiles (when present) then the process environment.
func LoadConfig(envFiles ...string) (Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Import.UploadDir) == "" {
		errs = append(errs, errors.New("IMPORT_UPLOAD_DIR is required"))
	}
	if c.Import.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", c.Import.BatchSize))
	}
	if c.Import.ProgressEvery <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_PROGRESS_EVERY must be positive, got %d", c.Import.ProgressEvery))
	}
	if c.Import.MaxConcurrent <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_MAX_CONCURRENT must be positive, got %d", c.Import.MaxConcurrent))
	}
	if c.Import.MaxQueued < 0 {
		errs = append(errs, fmt.Errorf("IMPORT_MAX_QUEUED must not be negative, got %d", c.Import.MaxQueued))
	}
	if c.Import.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_MAX_UPLOAD_BYTES must be positive, got %d", c.Import.MaxUploadBytes))
	}
	if err := c.Artifacts.StorageConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Elevation.Timeout < 0 {
		errs = append(errs, fmt.Errorf("ELEVATION_TIMEOUT must not be negative, got %s", c.Elevation.Timeout))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
