// Package token issues and validates HS256 access tokens and mints the
// refresh token records paired with them.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every access token parse failure
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by an access token.
// The embedded ID is the jti, Subject holds the email.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Expiry returns the exp claim as a time, zero if absent
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Option configures an Issuer or a Validator
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests that need to move time
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
