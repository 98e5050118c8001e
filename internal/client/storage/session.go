// Package storage defines the client's local persistence.
package storage

import (
	"context"
	"time"
)

// SessionStorage keeps the signed-in user's token pair between runs
type SessionStorage interface {
	// SaveSession replaces the stored session
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound when nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the session (logout).
	// Returns ErrSessionNotFound when there is nothing to delete
	DeleteSession(ctx context.Context) error
}

// Session is the locally stored token pair
type Session struct {
	Email        string `json:"email"`
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // access token exp, unix seconds
}

// AccessExpired reports whether the access token is past its exp at now
func (s *Session) AccessExpired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}
