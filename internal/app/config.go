package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/engine"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// MemoryCatalog selects the in-process catalog instead of SQLite.
const MemoryCatalog = ":memory:"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GridPath is a directory of .hcl files. Empty uses the built-in grids.
	GridPath string `env:"TALEGRID_GRID_PATH"`

	LogFormat       string `env:"TALEGRID_LOG_FORMAT" envDefault:"text"`
	LogLevel        string `env:"TALEGRID_LOG_LEVEL" envDefault:"info"`
	HealthcheckPort int    `env:"TALEGRID_HEALTHCHECK_PORT"`
	StepLimit       int    `env:"TALEGRID_STEP_LIMIT" envDefault:"10000"`

	CatalogDSN string `env:"TALEGRID_CATALOG_DSN" envDefault:"talegrid.db"`

	SessionBackend string        `env:"TALEGRID_SESSION_BACKEND" envDefault:"memory"`
	RedisURL       string        `env:"TALEGRID_REDIS_URL"`
	SessionTTL     time.Duration `env:"TALEGRID_SESSION_TTL" envDefault:"24h"`

	LLMAPIKey  string `env:"TALEGRID_LLM_API_KEY"`
	LLMBaseURL string `env:"TALEGRID_LLM_BASE_URL"`
	LLMModel   string `env:"TALEGRID_LLM_MODEL"`

	// ServeAddr switches from console play to the socket.io server.
	ServeAddr    string `env:"TALEGRID_SERVE_ADDR"`
	SnapshotPath string `env:"TALEGRID_SNAPSHOT_PATH"`
	OTelEndpoint string `env:"TALEGRID_OTEL_ENDPOINT"`
}

// ConfigFromEnv returns the configuration described by TALEGRID_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewConfig validates cfg and returns a copy with defaults applied.
func NewConfig(cfg Config) (*Config, error) {
	var problems []string

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		problems = append(problems, "log format must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "log level must be 'debug', 'info', 'warn' or 'error'")
	}

	if cfg.StepLimit <= 0 {
		cfg.StepLimit = engine.DefaultStepLimit
	}
	if cfg.CatalogDSN == "" {
		cfg.CatalogDSN = MemoryCatalog
	}

	cfg.SessionBackend = strings.ToLower(cfg.SessionBackend)
	switch cfg.SessionBackend {
	case "":
		cfg.SessionBackend = BackendMemory
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			problems = append(problems, "redis session backend requires a redis URL")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown session backend '%s'", cfg.SessionBackend))
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		problems = append(problems, fmt.Sprintf("healthcheck port %d is out of range", cfg.HealthcheckPort))
	}

	if len(problems) > 0 {
		return nil, errors.New("invalid configuration:\n- " + strings.Join(problems, "\n- "))
	}
	return &cfg, nil
}
