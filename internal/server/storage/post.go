package storage

import (
	"context"

	"github.com/iudanet/tweetbook/internal/models"
)

// PostStorage defines interface for post persistence
type PostStorage interface {
	// CreatePost inserts a new post
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves a single post by ID
	// Returns ErrPostNotFound if post doesn't exist
	GetPost(ctx context.Context, postID string) (*models.Post, error)

	// ListPosts returns all posts ordered by creation time
	// Returns empty slice if no posts found
	ListPosts(ctx context.Context) ([]*models.Post, error)

	// UpdatePost updates name and updated_at of an existing post
	// Returns ErrPostNotFound if post doesn't exist
	UpdatePost(ctx context.Context, post *models.Post) error

	// DeletePost deletes post by ID
	// Returns ErrPostNotFound if post doesn't exist
	DeletePost(ctx context.Context, postID string) error
}

// Pinger is implemented by storages that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}
