package config

import (
	"flag"
	"fmt"
	"io"
)

// parseFlags overlays command-line flags on config.
// Flags left unset keep the value from defaults or the environment.
//
//	-a                  HTTP listen address
//	-driver             storage driver (sqlite|postgres)
//	-dsn                sqlite path or PostgreSQL DSN
//	-token-store        refresh token store (sql|redis)
//	-redis-addr         redis address
//	-redis-password     redis password
//	-redis-db           redis database number
//	-jwt-secret         HMAC secret for access tokens
//	-access-ttl         access token lifetime
//	-refresh-months     refresh token lifetime in calendar months
//	-rate-limit         requests per window per client, 0 disables
//	-rate-window        rate limit window
//	-log-level          debug|info|warn|error
//	-log-format         text|json
//	-janitor-interval   expired refresh token sweep interval, 0 disables
//	-janitor-retention  how long expired refresh tokens are kept
//	-shutdown-timeout   graceful shutdown timeout
//	-version            print version and exit
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("tweetbook-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP listen address")
	fs.StringVar(&config.StorageDriver, "driver", config.StorageDriver, "storage driver (sqlite|postgres)")
	fs.StringVar(&config.DatabaseDSN, "dsn", config.DatabaseDSN, "sqlite path or PostgreSQL DSN")
	fs.StringVar(&config.RefreshTokenStore, "token-store", config.RefreshTokenStore, "refresh token store (sql|redis)")
	fs.StringVar(&config.RedisAddr, "redis-addr", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "redis-password", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "redis-db", config.RedisDB, "redis database number")
	fs.StringVar(&config.JWTSecret, "jwt-secret", config.JWTSecret, "HMAC secret for access tokens")
	fs.DurationVar(&config.AccessTokenTTL, "access-ttl", config.AccessTokenTTL, "access token lifetime")
	fs.IntVar(&config.RefreshTokenMonths, "refresh-months", config.RefreshTokenMonths, "refresh token lifetime in months")
	fs.IntVar(&config.RateLimit, "rate-limit", config.RateLimit, "requests per window per client, 0 disables")
	fs.DurationVar(&config.RateWindow, "rate-window", config.RateWindow, "rate limit window")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (text|json)")
	fs.DurationVar(&config.JanitorInterval, "janitor-interval", config.JanitorInterval, "expired token sweep interval, 0 disables")
	fs.DurationVar(&config.JanitorRetention, "janitor-retention", config.JanitorRetention, "how long expired refresh tokens are kept")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.BoolVar(&config.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	return nil
}
