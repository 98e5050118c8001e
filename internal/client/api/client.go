// Package api is the HTTP client for the Tweetbook server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/tweetbook/pkg/api"
)

const defaultTimeout = 30 * time.Second

// Error is a non-2xx response from the server
type Error struct {
	Messages   []string
	StatusCode int
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// IsUnauthorized reports whether err is a 401 from the server
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to the Tweetbook HTTP API
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client for baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register creates an account and returns the first token pair
func (c *Client) Register(ctx context.Context, email, password string) (*api.AuthSuccessResponse, error) {
	var resp api.AuthSuccessResponse
	req := api.UserRegistrationRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/identity/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, email, password string) (*api.AuthSuccessResponse, error) {
	var resp api.AuthSuccessResponse
	req := api.UserLoginRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/identity/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh trades an expired access token and its refresh token for a new pair
func (c *Client) Refresh(ctx context.Context, accessToken, refreshToken string) (*api.AuthSuccessResponse, error) {
	var resp api.AuthSuccessResponse
	req := api.RefreshTokenRequest{Token: accessToken, RefreshToken: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "/identity/refresh", "", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// ListPosts returns every post
func (c *Client) ListPosts(ctx context.Context, accessToken string) ([]api.PostResponse, error) {
	var resp []api.PostResponse
	if err := c.doRequest(ctx, http.MethodGet, api.PostsRoute, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts request failed: %w", err)
	}
	return resp, nil
}

// GetPost returns a single post
func (c *Client) GetPost(ctx context.Context, accessToken, postID string) (*api.PostResponse, error) {
	var resp api.PostResponse
	if err := c.doRequest(ctx, http.MethodGet, postPath(postID), accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("get post request failed: %w", err)
	}
	return &resp, nil
}

// CreatePost publishes a post owned by the caller
func (c *Client) CreatePost(ctx context.Context, accessToken, name string) (*api.PostResponse, error) {
	var resp api.PostResponse
	req := api.CreatePostRequest{Name: name}
	if err := c.doRequest(ctx, http.MethodPost, api.PostsRoute, accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	return &resp, nil
}

// UpdatePost renames a post owned by the caller
func (c *Client) UpdatePost(ctx context.Context, accessToken, postID, name string) (*api.PostResponse, error) {
	var resp api.PostResponse
	req := api.UpdatePostRequest{Name: name}
	if err := c.doRequest(ctx, http.MethodPut, postPath(postID), accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("update post request failed: %w", err)
	}
	return &resp, nil
}

// DeletePost removes a post owned by the caller
func (c *Client) DeletePost(ctx context.Context, accessToken, postID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, postPath(postID), accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete post request failed: %w", err)
	}
	return nil
}

func postPath(postID string) string {
	return api.PostsRoute + "/" + url.PathEscape(postID)
}

func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError understands both {"errors": [...]} and {"error": "..."} bodies
func decodeError(status int, body []byte) *Error {
	var payload struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	apiErr := &Error{StatusCode: status}

	if err := json.Unmarshal(body, &payload); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			apiErr.Messages = []string{text}
		}
		return apiErr
	}

	apiErr.Messages = payload.Errors
	if payload.Error != "" {
		apiErr.Messages = append(apiErr.Messages, payload.Error)
	}
	return apiErr
}
