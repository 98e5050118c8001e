package api

import "time"

// Route templates for the posts resource
const (
	PostsRoute = "/api/v1/posts"
	PostRoute  = "/api/v1/posts/{postId}"
)

// CreatePostRequest is the body of POST /api/v1/posts
type CreatePostRequest struct {
	Name string `json:"name"`
}

// UpdatePostRequest is the body of PUT /api/v1/posts/{postId}
type UpdatePostRequest struct {
	Name string `json:"name"`
}

// PostResponse is a post as returned by the API
type PostResponse struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
}
