// Package posts implements the posts resource with owner-only mutation.
package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/identity"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// MaxNameLen is the longest post name accepted
const MaxNameLen = 280

var (
	// ErrNotFound is returned when the post does not exist
	ErrNotFound = errors.New("post not found")
	// ErrNotOwner is returned when the caller tries to change someone else's post
	ErrNotOwner = errors.New("you do not own this post")
	// ErrInvalidName is returned for an empty or oversized name
	ErrInvalidName = errors.New("invalid post name")
)

// Service manages posts
type Service struct {
	logger *slog.Logger
	posts  storage.PostStorage
	now    func() time.Time
}

// NewService creates a new posts Service
func NewService(logger *slog.Logger, posts storage.PostStorage) *Service {
	return &Service{
		logger: logger,
		posts:  posts,
		now:    time.Now,
	}
}

// List returns every post, oldest first
func (s *Service) List(ctx context.Context) ([]*models.Post, error) {
	return s.posts.ListPosts(ctx)
}

// Get returns a single post
func (s *Service) Get(ctx context.Context, postID string) (*models.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, ErrNotFound
	}

	post, err := s.posts.GetPost(ctx, postID)
	if errors.Is(err, storage.ErrPostNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create stores a new post owned by ownerID
func (s *Service) Create(ctx context.Context, name, ownerID string) (*models.Post, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		ID:        uuid.New().String(),
		Name:      name,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("user_id", ownerID))

	return post, nil
}

// Update renames a post; only the owner may do it
func (s *Service) Update(ctx context.Context, postID, name, callerID string) (*models.Post, error) {
	post, err := s.ownedPost(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}

	post.Name = name
	post.UpdatedAt = s.now()

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// Delete removes a post; only the owner may do it
func (s *Service) Delete(ctx context.Context, postID, callerID string) error {
	if _, err := s.ownedPost(ctx, postID, callerID); err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.InfoContext(ctx, "post deleted",
		slog.String("post_id", postID),
		slog.String("user_id", callerID))

	return nil
}

// ownedPost loads the post and checks that callerID owns it.
// A missing post is ErrNotFound, someone else's is ErrNotOwner.
func (s *Service) ownedPost(ctx context.Context, postID, callerID string) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !identity.OwnsResource(callerID, post.UserID) {
		return nil, ErrNotOwner
	}
	return post, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len([]rune(name)) > MaxNameLen {
		return "", fmt.Errorf("%w: name must not exceed %d characters", ErrInvalidName, MaxNameLen)
	}
	return name, nil
}
