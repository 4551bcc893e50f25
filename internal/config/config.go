package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"todokAPI/internal/store"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"3333"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/todok.db"`

	GeminiAPIKey          string        `env:"API_KEY"`
	GeminiModel           string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	EncouragementTimeout  time.Duration `env:"ENCOURAGEMENT_TIMEOUT" envDefault:"5s"`
	EncouragementRPS      float64       `env:"ENCOURAGEMENT_RPS" envDefault:"1"`
	EncouragementBurst    int           `env:"ENCOURAGEMENT_BURST" envDefault:"3"`
	EncouragementTTL      time.Duration `env:"ENCOURAGEMENT_TTL" envDefault:"4s"`
	EncouragementWorkers  int           `env:"ENCOURAGEMENT_WORKERS" envDefault:"2"`
	AutoPublishReflection bool          `env:"AUTO_PUBLISH_REFLECTIONS" envDefault:"true"`

	FCMServiceAccountJSON string   `env:"FCM_SERVICE_ACCOUNT_JSON"`
	FCMCredentialsFile    string   `env:"FCM_CREDENTIALS_FILE"`
	PushDeviceTokens      []string `env:"PUSH_DEVICE_TOKENS" envSeparator:","`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"30"`
	MetricsUser    string  `env:"METRICS_USER"`
	MetricsPass    string  `env:"METRICS_PASS"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case store.BackendMemory:
	case store.BackendFile:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required when STORAGE_BACKEND=file")
		}
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: memory, file, postgres, sqlite (got %q)", c.StorageBackend)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.EncouragementTimeout <= 0 {
		return errors.New("ENCOURAGEMENT_TIMEOUT must be positive")
	}
	if c.EncouragementWorkers < 1 {
		return errors.New("ENCOURAGEMENT_WORKERS must be at least 1")
	}
	return nil
}

func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.StorageBackend,
		DataDir:     c.DataDir,
		DatabaseURL: c.DatabaseURL,
		SQLitePath:  c.SQLitePath,
	}
}
