package handlers

import (
	"context"

	"github.com/iudanet/tweetbook/internal/server/token"
)

// contextKey is the type of keys this package stores in a request context
type contextKey string

// ClaimsKey holds the *token.Claims of an authenticated request
const ClaimsKey contextKey = "claims"

// WithClaims returns a copy of ctx carrying claims
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims extracts the validated access token claims from the request context
func GetClaims(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok && claims != nil
}
