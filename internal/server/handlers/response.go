package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tweetbook/pkg/api"
)

const (
	msgInvalidBody     = "invalid request body"
	msgInternalError   = "internal server error"
	msgPostNotFound    = "post not found"
	msgNotPostOwner    = "You do not own this post"
	msgUnauthenticated = "unauthorized"
)

// sendJSON writes data as a JSON body with the given status
func sendJSON(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorContext(ctx, "failed to encode JSON response", slog.Any("error", err))
	}
}

// sendErrors writes the {"errors": [...]} body used by identity endpoints
func sendErrors(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, statusCode int, messages ...string) {
	sendJSON(ctx, logger, w, api.AuthFailedResponse{Errors: messages}, statusCode)
}

// sendError writes the {"error": "..."} body used by resource endpoints
func sendError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(ctx, logger, w, api.ErrorResponse{Error: message}, statusCode)
}
