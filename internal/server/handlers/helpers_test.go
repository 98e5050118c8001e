package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/tweetbook/internal/crypto"
	"github.com/iudanet/tweetbook/internal/server/accounts"
	"github.com/iudanet/tweetbook/internal/server/identity"
	"github.com/iudanet/tweetbook/internal/server/storage/sqlite"
	"github.com/iudanet/tweetbook/internal/server/token"
)

var testSecret = []byte("handlers-test-secret")

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type testServer struct {
	store     *sqlite.Storage
	identity  *identity.Service
	validator *token.Validator
	clock     *testClock
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{now: time.Now().UTC().Truncate(time.Second)}
	hasher := crypto.NewPasswordHasher(crypto.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	issuer := token.NewIssuer(token.Config{Secret: testSecret, AccessTokenTTL: 5 * time.Minute}, store, token.WithClock(clock.Now))
	validator := token.NewValidator(testSecret, token.WithClock(clock.Now))
	svc := identity.NewService(setupTestLogger(), accounts.NewManager(store, hasher), store, issuer, validator, identity.WithClock(clock.Now))

	return &testServer{
		store:     store,
		identity:  svc,
		validator: validator,
		clock:     clock,
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
