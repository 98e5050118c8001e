package models

import "time"

// Post is the content resource owned by a single user
type Post struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`      // post UUID
	Name      string    `json:"name"`    // post text
	UserID    string    `json:"user_id"` // owner ID, compared against the caller's id claim
}
