// Package accounts manages user accounts: lookup, creation under the
// password policy, and password verification.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
	"github.com/iudanet/tweetbook/internal/validation"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// ValidationError carries user-facing messages for rejected input
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Manager is the user store used by the identity service
type Manager struct {
	users  storage.UserStorage
	hasher PasswordHasher
	now    func() time.Time
}

// NewManager creates a new Manager
func NewManager(users storage.UserStorage, hasher PasswordHasher) *Manager {
	return &Manager{
		users:  users,
		hasher: hasher,
		now:    time.Now,
	}
}

// NormalizeEmail returns the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindUserByEmail returns nil, nil when no user has that email
func (m *Manager) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := m.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// FindUserByID returns nil, nil when no user has that id
func (m *Manager) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := m.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// CreateUser validates the input, hashes the password and stores a new account.
// Rejected input is reported as *ValidationError; a taken email as
// storage.ErrUserAlreadyExists.
func (m *Manager) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	var messages []string
	if err := validation.ValidateEmail(email); err != nil {
		messages = append(messages, fmt.Sprintf("Email '%s' is invalid.", email))
	}
	messages = append(messages, validation.PasswordPolicyViolations(password)...)
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    m.now(),
	}

	if err := m.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// VerifyPassword reports whether password matches the user's stored hash
func (m *Manager) VerifyPassword(_ context.Context, user *models.User, password string) (bool, error) {
	if user == nil {
		return false, nil
	}
	ok, err := m.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return ok, nil
}
