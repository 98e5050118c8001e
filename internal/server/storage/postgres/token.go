package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// InsertRefreshToken stores a new refresh token record
func (s *Storage) InsertRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, jwt_id, user_id, creation_date, expire_date, used, invalidated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.Token,
		token.JwtID,
		token.UserID,
		token.CreationDate.UTC(),
		token.ExpireDate.UTC(),
		token.Used,
		token.Invalidated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves refresh token by token value
func (s *Storage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT token, jwt_id, user_id, creation_date, expire_date, used, invalidated
		FROM refresh_tokens
		WHERE token = $1
	`

	refreshToken := &models.RefreshToken{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&refreshToken.Token,
		&refreshToken.JwtID,
		&refreshToken.UserID,
		&refreshToken.CreationDate,
		&refreshToken.ExpireDate,
		&refreshToken.Used,
		&refreshToken.Invalidated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return refreshToken, nil
}

// MarkRefreshTokenUsed sets used only while it is still false.
// The conditional UPDATE and the existence check run as one statement.
func (s *Storage) MarkRefreshTokenUsed(ctx context.Context, token string) (bool, error) {
	query := `
		WITH marked AS (
			UPDATE refresh_tokens SET used = TRUE
			WHERE token = $1 AND used = FALSE
			RETURNING token
		)
		SELECT
			EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1),
			EXISTS (SELECT 1 FROM marked)
	`

	var exists, marked bool
	if err := s.db.QueryRowContext(ctx, query, token).Scan(&exists, &marked); err != nil {
		return false, fmt.Errorf("failed to mark refresh token used: %w", err)
	}

	if !exists {
		return false, storage.ErrTokenNotFound
	}

	return marked, nil
}

// DeleteExpiredTokens removes all tokens that expired before the given time
func (s *Storage) DeleteExpiredTokens(ctx context.Context, before time.Time) (int, error) {
	query := `DELETE FROM refresh_tokens WHERE expire_date < $1`

	result, err := s.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
