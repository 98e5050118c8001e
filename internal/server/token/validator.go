package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Validator verifies access tokens signed by an Issuer with the same secret
type Validator struct {
	opts   options
	secret []byte
}

// NewValidator creates a new Validator
func NewValidator(secret []byte, opts ...Option) *Validator {
	return &Validator{
		secret: secret,
		opts:   buildOptions(opts),
	}
}

// Parse verifies the signature and algorithm of tokenString and returns its claims.
// With enforceExpiry false an expired but genuine token still parses.
// Every failure wraps ErrInvalidToken.
func (v *Validator) Parse(tokenString string, enforceExpiry bool) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.opts.now),
	}
	if enforceExpiry {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	} else {
		parserOpts = append(parserOpts, jwt.WithoutClaimsValidation())
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ID == "" || claims.UserID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}

	return claims, nil
}
