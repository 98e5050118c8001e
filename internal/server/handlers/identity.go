package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tweetbook/internal/server/identity"
	"github.com/iudanet/tweetbook/internal/validation"
	"github.com/iudanet/tweetbook/pkg/api"
)

// IdentityService is what the identity endpoints need from the auth core
type IdentityService interface {
	Register(ctx context.Context, email, password string) (*identity.Result, error)
	Login(ctx context.Context, email, password string) (*identity.Result, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*identity.Result, error)
}

// IdentityHandler serves /identity/register, /identity/login and /identity/refresh
type IdentityHandler struct {
	logger  *slog.Logger
	service IdentityService
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(logger *slog.Logger, service IdentityService) *IdentityHandler {
	return &IdentityHandler{
		logger:  logger,
		service: service,
	}
}

// Register handles POST /identity/register
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UserRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendErrors(ctx, h.logger, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	var problems []string
	if err := validation.ValidateEmail(req.Email); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		sendErrors(ctx, h.logger, w, http.StatusBadRequest, problems...)
		return
	}

	result, err := h.service.Register(ctx, req.Email, req.Password)
	h.respond(w, r, "register", result, err)
}

// Login handles POST /identity/login
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendErrors(ctx, h.logger, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	h.respond(w, r, "login", result, err)
}

// Refresh handles POST /identity/refresh
func (h *IdentityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode refresh request", slog.Any("error", err))
		sendErrors(ctx, h.logger, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.Refresh(ctx, req.Token, req.RefreshToken)
	h.respond(w, r, "refresh", result, err)
}

func (h *IdentityHandler) respond(w http.ResponseWriter, r *http.Request, op string, result *identity.Result, err error) {
	ctx := r.Context()

	if err != nil {
		h.logger.ErrorContext(ctx, "identity operation failed",
			slog.String("op", op),
			slog.Any("error", err))
		sendErrors(ctx, h.logger, w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if !result.Success {
		h.logger.InfoContext(ctx, "identity operation rejected",
			slog.String("op", op),
			slog.String("kind", result.Kind.String()),
			slog.Any("errors", result.Errors))
		sendErrors(ctx, h.logger, w, http.StatusBadRequest, result.Errors...)
		return
	}

	sendJSON(ctx, h.logger, w, api.AuthSuccessResponse{
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
	}, http.StatusOK)
}
