// Package api holds the JSON request and response bodies shared by the
// server handlers and the client.
package api

// UserRegistrationRequest is the body of POST /identity/register
type UserRegistrationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest is the body of POST /identity/login
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the body of POST /identity/refresh
type RefreshTokenRequest struct {
	Token        string `json:"token"`        // expired access token
	RefreshToken string `json:"refreshToken"` // refresh token paired with it
}

// AuthSuccessResponse carries a fresh token pair
type AuthSuccessResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthFailedResponse lists why authentication failed
type AuthFailedResponse struct {
	Errors []string `json:"errors"`
}

// ErrorResponse is the single-message error body used by resource endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
