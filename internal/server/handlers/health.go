package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/tweetbook/internal/server/storage"
	"github.com/iudanet/tweetbook/pkg/api"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports whether the server and its storages are up
type HealthHandler struct {
	logger  *slog.Logger
	version string
	pingers []storage.Pinger
}

// NewHealthHandler creates a new handler for health checks
func NewHealthHandler(logger *slog.Logger, version string, pingers ...storage.Pinger) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
		pingers: pingers,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	for _, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "storage health check failed", slog.Any("error", err))
			sendJSON(ctx, h.logger, w, api.HealthResponse{Status: "unavailable", Version: h.version}, http.StatusServiceUnavailable)
			return
		}
	}

	sendJSON(ctx, h.logger, w, api.HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
