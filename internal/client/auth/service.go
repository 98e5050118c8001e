// Package auth manages the client's session on top of the HTTP API and local storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/tweetbook/internal/client/storage"
	pkgapi "github.com/iudanet/tweetbook/pkg/api"
)

// ErrNotAuthenticated is returned when no session is stored
var ErrNotAuthenticated = errors.New("not authenticated, run 'tweetbook login' first")

// APIClient is the part of the HTTP client the auth service needs
type APIClient interface {
	Register(ctx context.Context, email, password string) (*pkgapi.AuthSuccessResponse, error)
	Login(ctx context.Context, email, password string) (*pkgapi.AuthSuccessResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*pkgapi.AuthSuccessResponse, error)
}

// sessionClaims is what the client reads from an access token
type sessionClaims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// AuthService implements Service
type AuthService struct {
	api      APIClient
	sessions storage.SessionStorage
	now      func() time.Time
}

var _ Service = (*AuthService)(nil)

// NewAuthService creates a new AuthService
func NewAuthService(api APIClient, sessions storage.SessionStorage) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		now:      time.Now,
	}
}

// Register creates an account and stores its first token pair
func (s *AuthService) Register(ctx context.Context, email, password string) (*storage.Session, error) {
	pair, err := s.api.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, pair)
}

// Login signs in and stores the token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, pair)
}

// Refresh trades the stored pair for a new one.
// The server only accepts this once the access token has expired.
func (s *AuthService) Refresh(ctx context.Context) (*storage.Session, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	pair, err := s.api.Refresh(ctx, session.AccessToken, session.RefreshToken)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, pair)
}

// AccessToken returns the stored access token, refreshing it first when expired
func (s *AuthService) AccessToken(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}

	if !session.AccessExpired(s.now()) {
		return session.AccessToken, nil
	}

	session, err = s.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to refresh session: %w", err)
	}
	return session.AccessToken, nil
}

// Session returns the stored session
func (s *AuthService) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// Logout deletes the stored session
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.sessions.DeleteSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return ErrNotAuthenticated
	}
	return err
}

// store decodes the pair's access token and persists the session
func (s *AuthService) store(ctx context.Context, pair *pkgapi.AuthSuccessResponse) (*storage.Session, error) {
	session, err := sessionFromPair(pair)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// sessionFromPair reads the access token claims without verifying the signature;
// only the server holds the key
func sessionFromPair(pair *pkgapi.AuthSuccessResponse) (*storage.Session, error) {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(pair.Token, &claims); err != nil {
		return nil, fmt.Errorf("server returned a malformed access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("server returned an access token without expiry")
	}

	return &storage.Session{
		Email:        claims.Email,
		UserID:       claims.UserID,
		AccessToken:  pair.Token,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    claims.ExpiresAt.Unix(),
	}, nil
}
