package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/posts"
	"github.com/iudanet/tweetbook/internal/server/token"
	"github.com/iudanet/tweetbook/pkg/api"
)

func setupPostsHandler(t *testing.T) (*PostsHandler, *testServer) {
	t.Helper()
	srv := setupTestServer(t)
	return NewPostsHandler(setupTestLogger(), posts.NewService(setupTestLogger(), srv.store)), srv
}

func createUser(t *testing.T, srv *testServer, email string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, srv.store.CreateUser(context.Background(), &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}))
	return id
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(WithClaims(req.Context(), &token.Claims{UserID: userID}))
}

func withPostID(req *http.Request, postID string) *http.Request {
	req.SetPathValue("postId", postID)
	return req
}

func createPost(t *testing.T, h *PostsHandler, userID, name string) api.PostResponse {
	t.Helper()
	w := httptest.NewRecorder()
	h.Create(w, asUser(jsonRequest(t, http.MethodPost, api.PostsRoute, api.CreatePostRequest{Name: name}), userID))
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	return decodeBody[api.PostResponse](t, w)
}

func TestPostsHandler_CreateAndGet(t *testing.T) {
	h, srv := setupPostsHandler(t)
	owner := createUser(t, srv, "owner@example.com")

	w := httptest.NewRecorder()
	h.Create(w, asUser(jsonRequest(t, http.MethodPost, api.PostsRoute, api.CreatePostRequest{Name: "hello"}), owner))
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody[api.PostResponse](t, w)
	assert.Equal(t, "hello", created.Name)
	assert.Equal(t, owner, created.UserID)
	assert.Equal(t, "/api/v1/posts/"+created.ID, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	h.Get(w, withPostID(asUser(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+created.ID, nil), owner), created.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeBody[api.PostResponse](t, w).ID)

	for _, id := range []string{uuid.New().String(), "not-a-uuid"} {
		w = httptest.NewRecorder()
		h.Get(w, withPostID(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id, nil), id))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestPostsHandler_CreateValidation(t *testing.T) {
	h, srv := setupPostsHandler(t)
	owner := createUser(t, srv, "owner@example.com")

	w := httptest.NewRecorder()
	h.Create(w, asUser(jsonRequest(t, http.MethodPost, api.PostsRoute, api.CreatePostRequest{Name: "  "}), owner))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Create(w, asUser(jsonRequest(t, http.MethodPost, api.PostsRoute, "{"), owner))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeBody[api.ErrorResponse](t, w).Error)

	w = httptest.NewRecorder()
	h.Create(w, jsonRequest(t, http.MethodPost, api.PostsRoute, api.CreatePostRequest{Name: "anon"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostsHandler_List(t *testing.T) {
	h, srv := setupPostsHandler(t)
	owner := createUser(t, srv, "owner@example.com")

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, api.PostsRoute, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	createPost(t, h, owner, "one")
	createPost(t, h, owner, "two")

	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, api.PostsRoute, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]api.PostResponse](t, w), 2)
}

func TestPostsHandler_Update(t *testing.T) {
	h, srv := setupPostsHandler(t)
	owner := createUser(t, srv, "owner@example.com")
	stranger := createUser(t, srv, "stranger@example.com")
	post := createPost(t, h, owner, "draft")

	update := func(userID, postID, name string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPut, "/api/v1/posts/"+postID, api.UpdatePostRequest{Name: name})
		h.Update(w, withPostID(asUser(req, userID), postID))
		return w
	}

	w := update(stranger, post.ID, "hijacked")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You do not own this post", decodeBody[api.ErrorResponse](t, w).Error)

	w = update(owner, uuid.New().String(), "ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = update(owner, post.ID, "final")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "final", decodeBody[api.PostResponse](t, w).Name)
}

func TestPostsHandler_Delete(t *testing.T) {
	h, srv := setupPostsHandler(t)
	owner := createUser(t, srv, "owner@example.com")
	stranger := createUser(t, srv, "stranger@example.com")
	post := createPost(t, h, owner, "temp")

	remove := func(userID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/posts/"+post.ID, nil)
		h.Delete(w, withPostID(asUser(req, userID), post.ID))
		return w
	}

	w := remove(stranger)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You do not own this post", decodeBody[api.ErrorResponse](t, w).Error)

	w = remove(owner)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = remove(owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
