package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/identity"
	"github.com/iudanet/tweetbook/internal/server/posts"
	"github.com/iudanet/tweetbook/pkg/api"
)

// PostService is what the posts endpoints need from the posts domain
type PostService interface {
	List(ctx context.Context) ([]*models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	Create(ctx context.Context, name, ownerID string) (*models.Post, error)
	Update(ctx context.Context, postID, name, callerID string) (*models.Post, error)
	Delete(ctx context.Context, postID, callerID string) error
}

// PostsHandler serves the /api/v1/posts resource.
// Every route expects AuthMiddleware in front of it.
type PostsHandler struct {
	logger  *slog.Logger
	service PostService
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(logger *slog.Logger, service PostService) *PostsHandler {
	return &PostsHandler{
		logger:  logger,
		service: service,
	}
}

// List handles GET /api/v1/posts
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		h.internalError(ctx, w, "failed to list posts", err)
		return
	}

	resp := make([]api.PostResponse, 0, len(items))
	for _, post := range items {
		resp = append(resp, toPostResponse(post))
	}

	sendJSON(ctx, h.logger, w, resp, http.StatusOK)
}

// Get handles GET /api/v1/posts/{postId}
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.service.Get(ctx, r.PathValue("postId"))
	if err != nil {
		h.handleError(ctx, w, "failed to get post", err)
		return
	}

	sendJSON(ctx, h.logger, w, toPostResponse(post), http.StatusOK)
}

// Create handles POST /api/v1/posts
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req api.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(ctx, h.logger, w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	post, err := h.service.Create(ctx, req.Name, callerID)
	if err != nil {
		h.handleError(ctx, w, "failed to create post", err)
		return
	}

	w.Header().Set("Location", api.PostsRoute+"/"+post.ID)
	sendJSON(ctx, h.logger, w, toPostResponse(post), http.StatusCreated)
}

// Update handles PUT /api/v1/posts/{postId}
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req api.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(ctx, h.logger, w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	post, err := h.service.Update(ctx, r.PathValue("postId"), req.Name, callerID)
	if err != nil {
		h.handleError(ctx, w, "failed to update post", err)
		return
	}

	sendJSON(ctx, h.logger, w, toPostResponse(post), http.StatusOK)
}

// Delete handles DELETE /api/v1/posts/{postId}
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, r.PathValue("postId"), callerID); err != nil {
		h.handleError(ctx, w, "failed to delete post", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, _ := GetClaims(r.Context())
	callerID := identity.CallerID(claims)
	if callerID == "" {
		sendError(r.Context(), h.logger, w, msgUnauthenticated, http.StatusUnauthorized)
		return "", false
	}
	return callerID, true
}

func (h *PostsHandler) handleError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, posts.ErrNotFound):
		sendError(ctx, h.logger, w, msgPostNotFound, http.StatusNotFound)
	case errors.Is(err, posts.ErrNotOwner):
		h.logger.WarnContext(ctx, "post ownership check failed", slog.Any("error", err))
		sendError(ctx, h.logger, w, msgNotPostOwner, http.StatusBadRequest)
	case errors.Is(err, posts.ErrInvalidName):
		sendError(ctx, h.logger, w, err.Error(), http.StatusBadRequest)
	default:
		h.internalError(ctx, w, msg, err)
	}
}

func (h *PostsHandler) internalError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.ErrorContext(ctx, msg, slog.Any("error", err))
	sendError(ctx, h.logger, w, msgInternalError, http.StatusInternalServerError)
}

func toPostResponse(post *models.Post) api.PostResponse {
	return api.PostResponse{
		ID:        post.ID,
		Name:      post.Name,
		UserID:    post.UserID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
