package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/tweetbook/internal/crypto"
	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// DefaultRefreshTokenMonths is how long a refresh token stays redeemable
const DefaultRefreshTokenMonths = 6

// Config holds the signing key and lifetimes shared by the whole process
type Config struct {
	Secret             []byte
	AccessTokenTTL     time.Duration
	RefreshTokenMonths int
}

// Issuer mints access tokens and persists the refresh token paired with each one
type Issuer struct {
	tokens storage.TokenStorage
	now    func() time.Time
	cfg    Config
}

// NewIssuer creates a new Issuer
func NewIssuer(cfg Config, tokens storage.TokenStorage, opts ...Option) *Issuer {
	if cfg.RefreshTokenMonths <= 0 {
		cfg.RefreshTokenMonths = DefaultRefreshTokenMonths
	}
	o := buildOptions(opts)
	return &Issuer{
		cfg:    cfg,
		tokens: tokens,
		now:    o.now,
	}
}

// IssueTokens signs a new access token for user and stores its refresh token.
// Nothing is returned unless the refresh record was persisted.
func (i *Issuer) IssueTokens(ctx context.Context, user *models.User) (string, *models.RefreshToken, error) {
	now := i.now()
	jti := uuid.New().String()

	claims := Claims{
		Email:  user.Email,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	value, err := crypto.NewRefreshToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := &models.RefreshToken{
		Token:        value,
		JwtID:        jti,
		UserID:       user.ID,
		CreationDate: now,
		ExpireDate:   now.AddDate(0, i.cfg.RefreshTokenMonths, 0),
	}

	if err := i.tokens.InsertRefreshToken(ctx, record); err != nil {
		return "", nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, record, nil
}
