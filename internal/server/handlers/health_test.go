package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/tweetbook/pkg/api"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	healthy := pingerFunc(func(context.Context) error { return nil })
	broken := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		wantStatus string
		pingers    []pingerFunc
		wantCode   int
	}{
		{name: "no storages", wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "all healthy", pingers: []pingerFunc{healthy, healthy}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "one broken", pingers: []pingerFunc{healthy, broken}, wantCode: http.StatusServiceUnavailable, wantStatus: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(setupTestLogger(), "1.2.3")
			for _, p := range tt.pingers {
				h.pingers = append(h.pingers, p)
			}

			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			resp := decodeBody[api.HealthResponse](t, w)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "1.2.3", resp.Version)
		})
	}
}
