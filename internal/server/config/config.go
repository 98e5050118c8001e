// Package config holds the server settings: defaults, then TWEETBOOK_*
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "TWEETBOOK_"

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Refresh token stores
const (
	TokenStoreSQL   = "sql"
	TokenStoreRedis = "redis"
)

// Config holds runtime settings for the Tweetbook server
type Config struct {
	HTTPAddr           string        `env:"HTTP_ADDR"`
	StorageDriver      string        `env:"STORAGE_DRIVER"`
	DatabaseDSN        string        `env:"DATABASE_DSN"`
	RefreshTokenStore  string        `env:"REFRESH_TOKEN_STORE"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	JWTSecret          string        `env:"JWT_SECRET"`
	LogLevel           string        `env:"LOG_LEVEL"`
	LogFormat          string        `env:"LOG_FORMAT"`
	RedisDB            int           `env:"REDIS_DB"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenMonths int           `env:"REFRESH_TOKEN_MONTHS"`
	RateLimit          int           `env:"RATE_LIMIT"`
	RateWindow         time.Duration `env:"RATE_WINDOW"`
	JanitorInterval    time.Duration `env:"JANITOR_INTERVAL"`
	JanitorRetention   time.Duration `env:"JANITOR_RETENTION"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"`
	ShowVersion        bool
}

// LoadDefaults populates Config with development defaults.
// JWTSecret has no default.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.StorageDriver = DriverSQLite
	c.DatabaseDSN = "tweetbook.db"
	c.RefreshTokenStore = TokenStoreSQL
	c.RedisAddr = "localhost:6379"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.AccessTokenTTL = 5 * time.Minute
	c.RefreshTokenMonths = 6
	c.RateLimit = 20
	c.RateWindow = time.Minute
	c.JanitorInterval = time.Hour
	c.JanitorRetention = 7 * 24 * time.Hour
	c.ShutdownTimeout = 10 * time.Second
}

// Load builds a Config from defaults, the environment and args (without the program name).
// A nil environ reads the process environment.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("access token ttl must be positive"))
	}
	if c.RefreshTokenMonths <= 0 {
		errs = append(errs, errors.New("refresh token months must be positive"))
	}
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	switch c.RefreshTokenStore {
	case TokenStoreSQL:
	case TokenStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis address is required for the redis token store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown refresh token store %q", c.RefreshTokenStore))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		errs = append(errs, errors.New("rate window must be positive"))
	}
	if c.JanitorInterval < 0 || c.JanitorRetention < 0 {
		errs = append(errs, errors.New("janitor interval and retention must not be negative"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// SlogLevel converts LogLevel to a slog.Level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
