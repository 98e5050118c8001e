package storage

import (
	"context"
	"time"

	"github.com/iudanet/tweetbook/internal/models"
)

// TokenStorage defines interface for refresh token persistence
type TokenStorage interface {
	// InsertRefreshToken stores a new refresh token record
	InsertRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves refresh token by token value
	// Returns ErrTokenNotFound if token doesn't exist
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// MarkRefreshTokenUsed flips the used flag to true only if it is still false.
	// The check and the write happen atomically; the returned bool reports
	// whether this call performed the transition.
	// Returns ErrTokenNotFound if token doesn't exist
	MarkRefreshTokenUsed(ctx context.Context, token string) (bool, error)

	// DeleteExpiredTokens removes records whose expiry is before the given time
	// Returns number of deleted tokens
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int, error)
}
