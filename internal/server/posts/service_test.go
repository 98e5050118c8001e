package posts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// mockPostStorage is an in-memory PostStorage for tests
type mockPostStorage struct {
	posts map[string]*models.Post
	err   error
	mu    sync.Mutex
}

func newMockPostStorage() *mockPostStorage {
	return &mockPostStorage{posts: make(map[string]*models.Post)}
}

func (m *mockPostStorage) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostStorage) GetPost(_ context.Context, postID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	post, ok := m.posts[postID]
	if !ok {
		return nil, storage.ErrPostNotFound
	}
	stored := *post
	return &stored, nil
}

func (m *mockPostStorage) ListPosts(_ context.Context) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		stored := *post
		result = append(result, &stored)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockPostStorage) UpdatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.posts[post.ID]; !ok {
		return storage.ErrPostNotFound
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostStorage) DeletePost(_ context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.posts[postID]; !ok {
		return storage.ErrPostNotFound
	}
	delete(m.posts, postID)
	return nil
}

func setupTestService() (*Service, *mockPostStorage) {
	store := newMockPostStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(logger, store), store
}

func TestService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService()
	owner := uuid.New().String()

	post, err := svc.Create(ctx, "  first post  ", owner)
	require.NoError(t, err)
	assert.Equal(t, "first post", post.Name)
	assert.Equal(t, owner, post.UserID)
	_, err = uuid.Parse(post.ID)
	assert.NoError(t, err)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Name, got.Name)

	_, err = svc.Get(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateInvalidName(t *testing.T) {
	svc, _ := setupTestService()

	for _, name := range []string{"", "   ", strings.Repeat("x", MaxNameLen+1)} {
		_, err := svc.Create(context.Background(), name, "owner")
		assert.ErrorIs(t, err, ErrInvalidName)
	}
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService()

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	base := time.Now()
	for i, name := range []string{"a", "b", "c"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		_, err := svc.Create(ctx, name, "owner")
		require.NoError(t, err)
	}

	posts, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "a", posts[0].Name)
	assert.Equal(t, "c", posts[2].Name)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService()
	owner := uuid.New().String()
	other := uuid.New().String()

	post, err := svc.Create(ctx, "draft", owner)
	require.NoError(t, err)

	tests := []struct {
		wantErr  error
		name     string
		postID   string
		newName  string
		callerID string
	}{
		{name: "stranger", postID: post.ID, newName: "hijack", callerID: other, wantErr: ErrNotOwner},
		{name: "anonymous", postID: post.ID, newName: "hijack", callerID: "", wantErr: ErrNotOwner},
		{name: "missing post", postID: uuid.New().String(), newName: "x", callerID: owner, wantErr: ErrNotFound},
		{name: "empty name", postID: post.ID, newName: "", callerID: owner, wantErr: ErrInvalidName},
		{name: "owner", postID: post.ID, newName: "final", callerID: owner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.Update(ctx, tt.postID, tt.newName, tt.callerID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.newName, updated.Name)
		})
	}

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestService()
	owner := uuid.New().String()

	post, err := svc.Create(ctx, "temp", owner)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, post.ID, uuid.New().String()), ErrNotOwner)
	assert.Contains(t, store.posts, post.ID)

	require.NoError(t, svc.Delete(ctx, post.ID, owner))
	assert.NotContains(t, store.posts, post.ID)

	assert.ErrorIs(t, svc.Delete(ctx, post.ID, owner), ErrNotFound)
}

func TestService_MutationsRequireOwnership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New().String()

	tests := []struct {
		wantErr  error
		mutate   func(svc *Service, postID, callerID string) error
		name     string
		callerID string
		missing  bool
		storeErr bool
	}{
		{name: "update by stranger", mutate: renamePost, callerID: uuid.New().String(), wantErr: ErrNotOwner},
		{name: "delete by stranger", mutate: deletePost, callerID: uuid.New().String(), wantErr: ErrNotOwner},
		{name: "update by anonymous", mutate: renamePost, callerID: "", wantErr: ErrNotOwner},
		{name: "delete by anonymous", mutate: deletePost, callerID: "", wantErr: ErrNotOwner},
		{name: "update missing post", mutate: renamePost, callerID: owner, missing: true, wantErr: ErrNotFound},
		{name: "delete missing post", mutate: deletePost, callerID: owner, missing: true, wantErr: ErrNotFound},
		{name: "update storage failure", mutate: renamePost, callerID: owner, storeErr: true},
		{name: "delete storage failure", mutate: deletePost, callerID: owner, storeErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupTestService()
			post, err := svc.Create(ctx, "mine", owner)
			require.NoError(t, err)

			postID := post.ID
			if tt.missing {
				postID = uuid.New().String()
			}
			if tt.storeErr {
				store.err = errors.New("connection reset")
			}

			err = tt.mutate(svc, postID, tt.callerID)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, ErrNotOwner)
				assert.NotErrorIs(t, err, ErrNotFound)
			}

			store.err = nil
			got, err := svc.Get(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, "mine", got.Name)
		})
	}
}

func renamePost(svc *Service, postID, callerID string) error {
	_, err := svc.Update(context.Background(), postID, "changed", callerID)
	return err
}

func deletePost(svc *Service, postID, callerID string) error {
	return svc.Delete(context.Background(), postID, callerID)
}
