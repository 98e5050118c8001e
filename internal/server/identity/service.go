// Package identity implements registration, login and refresh token rotation.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/accounts"
	"github.com/iudanet/tweetbook/internal/server/storage"
	"github.com/iudanet/tweetbook/internal/server/token"
)

// UserStore is the account collaborator
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, email, password string) (*models.User, error)
	VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error)
}

// TokenIssuer mints an access token and persists its refresh record
type TokenIssuer interface {
	IssueTokens(ctx context.Context, user *models.User) (string, *models.RefreshToken, error)
}

// TokenParser verifies access tokens
type TokenParser interface {
	Parse(tokenString string, enforceExpiry bool) (*token.Claims, error)
}

// Service orchestrates register, login and refresh.
// Failures the client can act on come back as a failed *Result;
// the returned error is reserved for storage failures.
type Service struct {
	logger *slog.Logger
	users  UserStore
	tokens storage.TokenStorage
	issuer TokenIssuer
	parser TokenParser
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new identity Service
func NewService(
	logger *slog.Logger,
	users UserStore,
	tokens storage.TokenStorage,
	issuer TokenIssuer,
	parser TokenParser,
	opts ...Option,
) *Service {
	s := &Service{
		logger: logger,
		users:  users,
		tokens: tokens,
		issuer: issuer,
		parser: parser,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and signs the new user in
func (s *Service) Register(ctx context.Context, email, password string) (*Result, error) {
	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return failed(KindCredential, MsgUserAlreadyExists), nil
	}

	user, err := s.users.CreateUser(ctx, email, password)
	if err != nil {
		var vErr *accounts.ValidationError
		switch {
		case errors.As(err, &vErr):
			return failed(KindValidation, vErr.Messages...), nil
		case errors.Is(err, storage.ErrUserAlreadyExists):
			// lost a race with a concurrent registration
			return failed(KindCredential, MsgUserAlreadyExists), nil
		default:
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))

	return s.issue(ctx, user)
}

// Login signs in an existing user
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return failed(KindCredential, MsgIncorrectCredentials), nil
	}

	ok, err := s.users.VerifyPassword(ctx, user, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return failed(KindCredential, MsgIncorrectCredentials), nil
	}

	return s.issue(ctx, user)
}

// Refresh exchanges an expired access token and its paired refresh token for a new pair.
// The first failing check decides the error; a refresh token is redeemed at most once.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Result, error) {
	claims, err := s.parser.Parse(accessToken, false)
	if err != nil {
		s.logger.DebugContext(ctx, "refresh with unparseable token", slog.Any("error", err))
		return failed(KindToken, MsgInvalidToken), nil
	}

	now := s.now()

	if claims.Expiry().After(now) {
		return failed(KindRefreshState, MsgTokenNotExpired), nil
	}

	record, err := s.tokens.GetRefreshToken(ctx, refreshToken)
	if errors.Is(err, storage.ErrTokenNotFound) {
		return failed(KindRefreshState, MsgRefreshNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	switch {
	case record.IsExpired(now):
		return failed(KindRefreshState, MsgRefreshExpired), nil
	case record.Invalidated:
		return failed(KindRefreshState, MsgRefreshInvalidated), nil
	case record.Used:
		return failed(KindRefreshState, MsgRefreshUsed), nil
	case record.JwtID != claims.ID:
		s.logger.WarnContext(ctx, "refresh token presented with foreign access token",
			slog.String("user_id", record.UserID))
		return failed(KindRefreshState, MsgRefreshJwtMismatch), nil
	}

	marked, err := s.tokens.MarkRefreshTokenUsed(ctx, refreshToken)
	if errors.Is(err, storage.ErrTokenNotFound) {
		return failed(KindRefreshState, MsgRefreshNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark refresh token used: %w", err)
	}
	if !marked {
		s.logger.WarnContext(ctx, "concurrent refresh token redemption rejected",
			slog.String("user_id", record.UserID))
		return failed(KindRefreshState, MsgRefreshUsed), nil
	}

	user, err := s.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.WarnContext(ctx, "refresh for deleted user", slog.String("user_id", claims.UserID))
		return failed(KindToken, MsgInvalidToken), nil
	}

	return s.issue(ctx, user)
}

func (s *Service) issue(ctx context.Context, user *models.User) (*Result, error) {
	accessToken, record, err := s.issuer.IssueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return succeeded(accessToken, record.Token), nil
}
