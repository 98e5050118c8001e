package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/tweetbook/internal/server/handlers"
	"github.com/iudanet/tweetbook/internal/server/token"
)

// TokenParser validates an access token and returns its claims
type TokenParser interface {
	Parse(tokenString string, enforceExpiry bool) (*token.Claims, error)
}

// AuthMiddleware rejects requests without a valid, unexpired bearer token.
// Validated claims are stored in the request context for handlers.
func AuthMiddleware(logger *slog.Logger, parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "missing or malformed Authorization header",
					slog.String("path", r.URL.Path))
				unauthorized(w)
				return
			}

			claims, err := parser.Parse(tokenString, true)
			if err != nil {
				logger.WarnContext(ctx, "invalid access token",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				unauthorized(w)
				return
			}

			logger.DebugContext(ctx, "request authenticated", slog.String("user_id", claims.UserID))

			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(ctx, claims)))
		})
	}
}

// bearerToken extracts <token> from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}
