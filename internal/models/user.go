package models

import "time"

// User represents a registered account
type User struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`    // user UUID
	Email        string    `json:"email"` // unique, also used as the login name
	PasswordHash string    `json:"-"`     // Argon2id PHC string
}

// RefreshToken represents a persisted refresh token record.
// A record is bound to exactly one access token through JwtID and may be
// redeemed once: Used flips from false to true only on a successful refresh.
type RefreshToken struct {
	CreationDate time.Time `json:"creation_date"`
	ExpireDate   time.Time `json:"expire_date"`
	Token        string    `json:"token"`   // opaque random value handed to the client
	JwtID        string    `json:"jwt_id"`  // jti of the paired access token
	UserID       string    `json:"user_id"` // owner
	Used         bool      `json:"used"`
	Invalidated  bool      `json:"invalidated"`
}

// IsExpired reports whether the record is past its expiry at the given time
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpireDate)
}
