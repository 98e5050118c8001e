package token

import (
	"context"
	"sync"
	"time"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// mockTokenStorage is an in-memory TokenStorage for tests
type mockTokenStorage struct {
	tokens    map[string]*models.RefreshToken
	insertErr error
	mu        sync.Mutex
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenStorage) InsertRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	stored := *token
	m.tokens[token.Token] = &stored
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(_ context.Context, value string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[value]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	stored := *token
	return &stored, nil
}

func (m *mockTokenStorage) MarkRefreshTokenUsed(_ context.Context, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[value]
	if !ok {
		return false, storage.ErrTokenNotFound
	}
	if token.Used {
		return false, nil
	}
	token.Used = true
	return true, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for value, token := range m.tokens {
		if token.ExpireDate.Before(before) {
			delete(m.tokens, value)
			deleted++
		}
	}
	return deleted, nil
}
