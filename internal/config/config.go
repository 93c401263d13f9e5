// Package config loads application configuration from environment
// variables. All variables use the MATHQUEST_ prefix; LLM provider
// settings are read separately by llm.ConfigFromEnv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by StoreConfig.Backend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Store  StoreConfig
	Server ServerConfig
	Auth   AuthConfig
	Log    LogConfig
	Jobs   JobsConfig

	// User scopes the completion record for CLI commands. Empty means the
	// single local learner.
	User string
}

// StoreConfig selects where completion records and settings live. The
// SQLite database at DBPath always holds the LLM request log.
type StoreConfig struct {
	Backend     string
	DBPath      string
	PostgresURL string
	RedisURL    string
	RedisPrefix string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// AuthConfig holds bearer token settings. An empty secret disables token
// verification and every request is anonymous.
type AuthConfig struct {
	JWTSecret string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	Enabled           bool
	LLMEventRetention time.Duration
	PruneAt           string // HH:MM, UTC
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			Backend:     strings.ToLower(envStr("MATHQUEST_STORE_BACKEND", BackendSQLite)),
			DBPath:      envStr("MATHQUEST_DB", ""),
			PostgresURL: envStr("MATHQUEST_POSTGRES_URL", ""),
			RedisURL:    envStr("MATHQUEST_REDIS_URL", "redis://localhost:6379"),
			RedisPrefix: envStr("MATHQUEST_REDIS_PREFIX", "mathquest:"),
		},
		Server: ServerConfig{
			Addr:            envStr("MATHQUEST_SERVER_ADDR", ":8080"),
			ShutdownTimeout: envDuration("MATHQUEST_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: envStr("MATHQUEST_AUTH_JWT_SECRET", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(envStr("MATHQUEST_LOG_LEVEL", "info")),
			Format: strings.ToLower(envStr("MATHQUEST_LOG_FORMAT", "text")),
		},
		Jobs: JobsConfig{
			Enabled:           envBool("MATHQUEST_JOBS_ENABLED", true),
			LLMEventRetention: envDuration("MATHQUEST_LLM_EVENT_RETENTION", 30*24*time.Hour),
			PruneAt:           envStr("MATHQUEST_JOBS_PRUNE_AT", "03:00"),
		},
		User: envStr("MATHQUEST_USER", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendMemory:
	case BackendPostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("MATHQUEST_POSTGRES_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("MATHQUEST_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("MATHQUEST_STORE_BACKEND must be one of sqlite, postgres, redis, memory, got %q", c.Store.Backend)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("MATHQUEST_LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("MATHQUEST_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	if c.Jobs.LLMEventRetention <= 0 {
		return fmt.Errorf("MATHQUEST_LLM_EVENT_RETENTION must be positive, got %s", c.Jobs.LLMEventRetention)
	}
	if _, err := time.Parse("15:04", c.Jobs.PruneAt); err != nil {
		return fmt.Errorf("MATHQUEST_JOBS_PRUNE_AT must be HH:MM, got %q", c.Jobs.PruneAt)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

// envDuration accepts Go durations ("72h") or a bare number of days ("30").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if days := envInt(key, -1); days >= 0 {
		return time.Duration(days) * 24 * time.Hour
	}
	return fallback
}
