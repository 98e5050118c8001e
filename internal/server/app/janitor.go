package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/tweetbook/internal/server/storage"
)

// Janitor periodically deletes refresh token records that expired
// more than retention ago
type Janitor struct {
	tokens    storage.TokenStorage
	logger    *slog.Logger
	now       func() time.Time
	interval  time.Duration
	retention time.Duration
}

// NewJanitor creates a janitor over tokens. now is the clock expiry is
// measured against; nil means time.Now.
func NewJanitor(logger *slog.Logger, tokens storage.TokenStorage, interval, retention time.Duration, now func() time.Time) *Janitor {
	if now == nil {
		now = time.Now
	}
	return &Janitor{
		tokens:    tokens,
		logger:    logger,
		now:       now,
		interval:  interval,
		retention: retention,
	}
}

// Run sweeps every interval until ctx is cancelled
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil && ctx.Err() == nil {
				j.logger.ErrorContext(ctx, "failed to delete expired refresh tokens", slog.Any("error", err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs a single cleanup pass and returns the number of deleted records
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.retention)

	deleted, err := j.tokens.DeleteExpiredTokens(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		j.logger.InfoContext(ctx, "expired refresh tokens deleted",
			slog.Int("count", deleted),
			slog.Time("cutoff", cutoff))
	}

	return deleted, nil
}
