package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Argon2id parameters used for password hashing
const (
	// Argon2Time - number of iterations (time cost)
	Argon2Time = 1
	// Argon2Memory - memory in KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - number of parallel lanes
	Argon2Threads = 4
	// Argon2KeyLen - length of the derived hash in bytes
	Argon2KeyLen = 32
	// SaltSize - salt length in bytes
	SaltSize = 16
	// RefreshTokenSize - number of random bytes in a refresh token value
	RefreshTokenSize = 32
)

// GenerateSalt returns a cryptographically random salt of SaltSize bytes
func GenerateSalt() ([]byte, error) {
	return randomBytes(SaltSize)
}

// RandomToken returns size random bytes encoded as unpadded base64url.
// The result is safe to put in URLs, JSON bodies and headers.
func RandomToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	b, err := randomBytes(size)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewRefreshToken returns a fresh opaque refresh token value
func NewRefreshToken() (string, error) {
	return RandomToken(RefreshTokenSize)
}

func randomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
