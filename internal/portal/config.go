package portal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/caarlos0/env/v11"
)

// Storage backends selectable with CAMPUS_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// EmbeddedRedis as CAMPUS_REDIS_ADDR runs an in-process Redis for local demos.
const EmbeddedRedis = "embedded"

// Config is the process configuration of the portal server.
type Config struct {
	Addr            string        `env:"CAMPUS_ADDR"              envDefault:":8080"`
	Storage         string        `env:"CAMPUS_STORAGE"           envDefault:"sqlite"`
	SQLitePath      string        `env:"CAMPUS_SQLITE_PATH"       envDefault:"campus-session.db"`
	RedisAddr       string        `env:"CAMPUS_REDIS_ADDR"        envDefault:"localhost:6379"`
	RedisPassword   string        `env:"CAMPUS_REDIS_PASSWORD"`
	RedisDB         int           `env:"CAMPUS_REDIS_DB"          envDefault:"0"`
	RedisPrefix     string        `env:"CAMPUS_REDIS_PREFIX"      envDefault:"campus"`
	SigningMethod   string        `env:"CAMPUS_SIGNING_METHOD"    envDefault:"hs256"`
	SigningKey      string        `env:"CAMPUS_SIGNING_KEY"`
	Latency         time.Duration `env:"CAMPUS_SIMULATED_LATENCY" envDefault:"1s"`
	ReturnToOrigin  bool          `env:"CAMPUS_RETURN_TO_ORIGIN"  envDefault:"false"`
	CORSOrigins     []string      `env:"CAMPUS_CORS_ORIGINS"      envSeparator:"," envDefault:"http://localhost:5173"`
	ToastCapacity   int           `env:"CAMPUS_TOAST_CAPACITY"    envDefault:"32"`
	LogFormat       string        `env:"CAMPUS_LOG_FORMAT"        envDefault:"text"`
	LogLevel        slog.Level    `env:"CAMPUS_LOG_LEVEL"         envDefault:"info"`
	ShutdownTimeout time.Duration `env:"CAMPUS_SHUTDOWN_TIMEOUT"  envDefault:"5s"`
	OTelMetrics     bool          `env:"CAMPUS_OTEL_METRICS"      envDefault:"false"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("CAMPUS_SQLITE_PATH must not be empty")
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("CAMPUS_REDIS_ADDR must not be empty")
		}
		if strings.TrimSpace(c.RedisPrefix) == "" {
			return errors.New("CAMPUS_REDIS_PREFIX must not be empty")
		}
	default:
		return fmt.Errorf("unsupported CAMPUS_STORAGE %q", c.Storage)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unsupported CAMPUS_LOG_FORMAT %q", c.LogFormat)
	}
	if c.ToastCapacity <= 0 {
		return errors.New("CAMPUS_TOAST_CAPACITY must be > 0")
	}
	return nil
}

// EngineConfig maps the process configuration onto campusAuth defaults.
func (c Config) EngineConfig() campusAuth.Config {
	cfg := campusAuth.DefaultConfig()
	cfg.Latency.Simulated = c.Latency
	cfg.Redirect.ReturnToOrigin = c.ReturnToOrigin
	cfg.Session.RedisPrefix = c.RedisPrefix
	cfg.Session.SigningMethod = c.SigningMethod
	if c.SigningKey != "" {
		cfg.Session.SigningKey = []byte(c.SigningKey)
	}
	return cfg
}

// NewLogger builds the process logger.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
