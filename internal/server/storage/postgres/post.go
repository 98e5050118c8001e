package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// CreatePost inserts a new post
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, name, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query, post.ID, post.Name, post.UserID, post.CreatedAt.UTC(), post.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetPost retrieves a single post by ID
func (s *Storage) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	post := &models.Post{}
	err := s.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.Name, &post.UserID, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// ListPosts returns all posts ordered by creation time
func (s *Storage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM posts
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Name, &post.UserID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// UpdatePost updates name and updated_at of an existing post
func (s *Storage) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET name = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, post.Name, post.UpdatedAt.UTC(), post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return rowsAffected(result, storage.ErrPostNotFound)
}

// DeletePost deletes post by ID
func (s *Storage) DeletePost(ctx context.Context, postID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return rowsAffected(result, storage.ErrPostNotFound)
}
