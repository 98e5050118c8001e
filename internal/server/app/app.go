// Package app wires configuration, storage, services and HTTP handlers
// into a runnable Tweetbook server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/tweetbook/internal/crypto"
	"github.com/iudanet/tweetbook/internal/server/accounts"
	"github.com/iudanet/tweetbook/internal/server/config"
	"github.com/iudanet/tweetbook/internal/server/handlers"
	"github.com/iudanet/tweetbook/internal/server/identity"
	"github.com/iudanet/tweetbook/internal/server/middleware"
	"github.com/iudanet/tweetbook/internal/server/posts"
	"github.com/iudanet/tweetbook/internal/server/storage"
	"github.com/iudanet/tweetbook/internal/server/storage/postgres"
	"github.com/iudanet/tweetbook/internal/server/storage/redisstore"
	"github.com/iudanet/tweetbook/internal/server/storage/sqlite"
	"github.com/iudanet/tweetbook/internal/server/token"
	"github.com/iudanet/tweetbook/pkg/api"
)

const readHeaderTimeout = 10 * time.Second

// identity endpoints get the configured rate, everything else this many times more
const defaultRateMultiplier = 10

// sqlBackend is what both SQL storages provide
type sqlBackend interface {
	storage.UserStorage
	storage.PostStorage
	storage.TokenStorage
	storage.Pinger
	Close() error
}

// Option customizes App construction
type Option func(*options)

type options struct {
	now          func() time.Time
	version      string
	argon2Params crypto.Argon2Params
}

// WithVersion sets the version reported by /health
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithArgon2Params overrides the password hashing cost
func WithArgon2Params(params crypto.Argon2Params) Option {
	return func(o *options) { o.argon2Params = params }
}

// WithClock replaces time.Now for token issuing and validation
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// App is a fully wired server
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler http.Handler
	janitor *Janitor
	limiter *middleware.PathRateLimiter
	closers []func() error
}

// New opens the configured storages and builds the HTTP handler.
// The caller must Close the App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{
		now:          time.Now,
		version:      "dev",
		argon2Params: crypto.DefaultArgon2Params(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, logger: logger}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	tokens, pingers, err := a.openTokenStore(ctx, db)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	secret := []byte(cfg.JWTSecret)
	hasher := crypto.NewPasswordHasher(o.argon2Params)
	manager := accounts.NewManager(db, hasher)
	issuer := token.NewIssuer(token.Config{
		Secret:             secret,
		AccessTokenTTL:     cfg.AccessTokenTTL,
		RefreshTokenMonths: cfg.RefreshTokenMonths,
	}, tokens, token.WithClock(o.now))
	validator := token.NewValidator(secret, token.WithClock(o.now))

	identityService := identity.NewService(logger, manager, tokens, issuer, validator, identity.WithClock(o.now))
	postService := posts.NewService(logger, db)

	mux := http.NewServeMux()
	registerRoutes(mux, logger, validator,
		handlers.NewIdentityHandler(logger, identityService),
		handlers.NewPostsHandler(logger, postService),
		handlers.NewHealthHandler(logger, o.version, pingers...),
	)

	var h http.Handler = mux
	if cfg.RateLimit > 0 {
		a.limiter = middleware.NewPathRateLimiter([]middleware.PathRateLimit{
			{Path: "/identity/register", Rate: cfg.RateLimit, Window: cfg.RateWindow},
			{Path: "/identity/login", Rate: cfg.RateLimit, Window: cfg.RateWindow},
			{Path: "/identity/refresh", Rate: cfg.RateLimit, Window: cfg.RateWindow},
		}, cfg.RateLimit*defaultRateMultiplier, cfg.RateWindow, logger)
		h = a.limiter.Middleware(h)
	}
	h = middleware.LoggingWithSkip(logger, []string{"/health"})(h)
	h = middleware.RecoveryMiddleware(logger)(h)
	a.handler = h

	if cfg.JanitorInterval > 0 {
		a.janitor = NewJanitor(logger, tokens, cfg.JanitorInterval, cfg.JanitorRetention, o.now)
	}

	return a, nil
}

func registerRoutes(
	mux *http.ServeMux,
	logger *slog.Logger,
	parser middleware.TokenParser,
	identityHandler *handlers.IdentityHandler,
	postsHandler *handlers.PostsHandler,
	healthHandler *handlers.HealthHandler,
) {
	authed := middleware.AuthMiddleware(logger, parser)

	mux.HandleFunc("POST /identity/register", identityHandler.Register)
	mux.HandleFunc("POST /identity/login", identityHandler.Login)
	mux.HandleFunc("POST /identity/refresh", identityHandler.Refresh)

	mux.Handle("GET "+api.PostsRoute, authed(http.HandlerFunc(postsHandler.List)))
	mux.Handle("POST "+api.PostsRoute, authed(http.HandlerFunc(postsHandler.Create)))
	mux.Handle("GET "+api.PostRoute, authed(http.HandlerFunc(postsHandler.Get)))
	mux.Handle("PUT "+api.PostRoute, authed(http.HandlerFunc(postsHandler.Update)))
	mux.Handle("DELETE "+api.PostRoute, authed(http.HandlerFunc(postsHandler.Delete)))

	mux.HandleFunc("GET /health", healthHandler.Health)
}

func openDatabase(ctx context.Context, cfg *config.Config) (sqlBackend, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := sqlite.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return db, nil
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// openTokenStore returns the refresh token store and everything /health should ping
func (a *App) openTokenStore(ctx context.Context, db sqlBackend) (storage.TokenStorage, []storage.Pinger, error) {
	if a.cfg.RefreshTokenStore != config.TokenStoreRedis {
		return db, []storage.Pinger{db}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	a.closers = append(a.closers, rdb.Close)

	store := redisstore.NewTokenStore(rdb, redisstore.DefaultPrefix, a.cfg.JanitorRetention)
	if err := store.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	a.logger.InfoContext(ctx, "refresh tokens stored in redis", slog.String("addr", a.cfg.RedisAddr))

	return store, []storage.Pinger{db, store}, nil
}

// Handler returns the root HTTP handler with the middleware chain applied
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run listens on the configured address and serves until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.HTTPAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	bgCtx, stopBackground := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup
	defer func() {
		stopBackground()
		wg.Wait()
	}()

	if a.janitor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.janitor.Run(bgCtx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	a.logger.InfoContext(ctx, "server started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.InfoContext(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// Close releases rate limiters and storage connections
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
