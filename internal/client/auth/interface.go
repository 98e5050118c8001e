package auth

import (
	"context"

	"github.com/iudanet/tweetbook/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service signs the user in and keeps the local session usable
type Service interface {
	// Register creates an account and stores the returned token pair
	Register(ctx context.Context, email, password string) (*storage.Session, error)

	// Login signs in and stores the returned token pair
	Login(ctx context.Context, email, password string) (*storage.Session, error)

	// Refresh rotates the stored pair through /identity/refresh
	Refresh(ctx context.Context) (*storage.Session, error)

	// AccessToken returns a token fit for an API call, refreshing first if it has expired
	AccessToken(ctx context.Context) (string, error)

	// Session returns the stored session without touching the network.
	// Returns ErrNotAuthenticated when nobody is logged in
	Session(ctx context.Context) (*storage.Session, error)

	// Logout deletes the local session
	Logout(ctx context.Context) error
}
