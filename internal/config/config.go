package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Session  SessionConfig  `mapstructure:"session"`
	LogLevel string         `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Env            string        `mapstructure:"env"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// StorageConfig selects the slot store backend
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	Path       string `mapstructure:"path"`
	QuotaBytes int    `mapstructure:"quota_bytes"`
	KeyScope   string `mapstructure:"key_scope"`
}

// RedisConfig holds Redis connection settings for the redis driver
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// DatabaseConfig holds SurrealDB connection settings for the surrealdb driver
type DatabaseConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Database  string `mapstructure:"database"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
}

// SeedConfig holds first-run seed settings
type SeedConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Limit   int           `mapstructure:"limit"`
}

// SessionConfig holds last-login refresh settings
type SessionConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	StaleAfter      time.Duration `mapstructure:"stale_after"`
}

// envBindings maps config keys to their environment variables
var envBindings = map[string]string{
	"server.port":              "SERVER_PORT",
	"server.env":               "SERVER_ENV",
	"server.read_timeout":      "SERVER_READ_TIMEOUT",
	"server.write_timeout":     "SERVER_WRITE_TIMEOUT",
	"server.allowed_origins":   "CORS_ALLOWED_ORIGINS",
	"storage.driver":           "STORAGE_DRIVER",
	"storage.path":             "STORAGE_PATH",
	"storage.quota_bytes":      "STORAGE_QUOTA_BYTES",
	"storage.key_scope":        "TASKS_KEY_SCOPE",
	"redis.addr":               "REDIS_ADDR",
	"redis.password":           "REDIS_PASSWORD",
	"redis.db":                 "REDIS_DB",
	"redis.prefix":             "REDIS_PREFIX",
	"database.host":            "DB_HOST",
	"database.port":            "DB_PORT",
	"database.namespace":       "DB_NAMESPACE",
	"database.database":        "DB_DATABASE",
	"database.user":            "DB_USER",
	"database.password":        "DB_PASSWORD",
	"seed.url":                 "SEED_URL",
	"seed.timeout":             "SEED_TIMEOUT",
	"seed.limit":               "SEED_LIMIT",
	"session.refresh_interval": "SESSION_REFRESH_INTERVAL",
	"session.stale_after":      "SESSION_STALE_AFTER",
	"log_level":                "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", DefaultStoragePath())
	v.SetDefault("storage.quota_bytes", 5<<20)
	v.SetDefault("storage.key_scope", "name")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "taskflow")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "8000")
	v.SetDefault("database.namespace", "taskflow")
	v.SetDefault("database.database", "main")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")

	v.SetDefault("seed.url", "https://dummyjson.com/todos")
	v.SetDefault("seed.timeout", 5*time.Second)
	v.SetDefault("seed.limit", 8)

	v.SetDefault("session.refresh_interval", time.Minute)
	v.SetDefault("session.stale_after", time.Hour)

	v.SetDefault("log_level", "info")
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in increasing precedence. An empty path falls
// back to TASKFLOW_CONFIG; no file at all is fine.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path == "" {
		path = os.Getenv("TASKFLOW_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins)
	return cfg, nil
}

// DefaultStoragePath returns ~/.taskflow/taskflow.db, or a path relative to
// the working directory when there is no home directory
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskflow", "taskflow.db")
	}
	return filepath.Join(home, ".taskflow", "taskflow.db")
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Storage validation
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("STORAGE_PATH is required for the sqlite driver"))
		}
	case "memory":
		if c.Storage.QuotaBytes < 0 {
			errs = append(errs, errors.New("STORAGE_QUOTA_BYTES must not be negative"))
		}
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis driver"))
		}
	case "surrealdb":
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the surrealdb driver"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required for the surrealdb driver"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required for the surrealdb driver"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required for the surrealdb driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be 'sqlite', 'memory', 'redis', or 'surrealdb', got '%s'", c.Storage.Driver))
	}
	if c.Storage.KeyScope != "name" && c.Storage.KeyScope != "id" {
		errs = append(errs, fmt.Errorf("TASKS_KEY_SCOPE must be 'name' or 'id', got '%s'", c.Storage.KeyScope))
	}

	// Seed validation
	if c.Seed.URL == "" {
		errs = append(errs, errors.New("SEED_URL is required"))
	}
	if c.Seed.Timeout <= 0 {
		errs = append(errs, errors.New("SEED_TIMEOUT must be positive"))
	}
	if c.Seed.Limit <= 0 {
		errs = append(errs, errors.New("SEED_LIMIT must be positive"))
	}

	// Session validation
	if c.Session.RefreshInterval <= 0 {
		errs = append(errs, errors.New("SESSION_REFRESH_INTERVAL must be positive"))
	}
	if c.Session.StaleAfter <= 0 {
		errs = append(errs, errors.New("SESSION_STALE_AFTER must be positive"))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be 'debug', 'info', 'warn', or 'error', got '%s'", c.LogLevel))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// splitOrigins expands comma-separated entries from the environment
func splitOrigins(origins []string) []string {
	var out []string
	for _, o := range origins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
