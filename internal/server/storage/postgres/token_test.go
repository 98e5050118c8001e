package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

var refreshColumns = []string{"token", "jwt_id", "user_id", "creation_date", "expire_date", "used", "invalidated"}

func TestStorage_InsertRefreshToken(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now()
	token := &models.RefreshToken{
		Token:        "tok",
		JwtID:        "jti-1",
		UserID:       "u-1",
		CreationDate: now,
		ExpireDate:   now.AddDate(0, 6, 0),
	}

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs("tok", "jti-1", "u-1", sqlmock.AnyArg(), sqlmock.AnyArg(), false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.InsertRefreshToken(context.Background(), token))

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnError(errors.New("db down"))

	assert.Error(t, s.InsertRefreshToken(context.Background(), token))
}

func TestStorage_GetRefreshToken(t *testing.T) {
	ctx := context.Background()
	expire := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`FROM refresh_tokens\s+WHERE token = \$1`).
			WithArgs("tok").
			WillReturnRows(sqlmock.NewRows(refreshColumns).
				AddRow("tok", "jti-1", "u-1", expire.AddDate(0, -6, 0), expire, true, false))

		got, err := s.GetRefreshToken(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "jti-1", got.JwtID)
		assert.True(t, got.Used)
		assert.False(t, got.Invalidated)
		assert.True(t, expire.Equal(got.ExpireDate))
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`FROM refresh_tokens\s+WHERE token = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(refreshColumns))

		_, err := s.GetRefreshToken(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})
}

func TestStorage_MarkRefreshTokenUsed(t *testing.T) {
	tests := []struct {
		queryErr error
		wantErr  error
		name     string
		exists   bool
		marked   bool
		want     bool
	}{
		{name: "first redemption", exists: true, marked: true, want: true},
		{name: "already used", exists: true, marked: false, want: false},
		{name: "unknown token", exists: false, marked: false, wantErr: storage.ErrTokenNotFound},
		{name: "db error", queryErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			exp := mock.ExpectQuery(`(?s)WITH marked AS \(\s*UPDATE refresh_tokens SET used = TRUE\s+WHERE token = \$1 AND used = FALSE`).
				WithArgs("tok")
			if tt.queryErr != nil {
				exp.WillReturnError(tt.queryErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"exists", "marked"}).AddRow(tt.exists, tt.marked))
			}

			got, err := s.MarkRefreshTokenUsed(context.Background(), "tok")
			switch {
			case tt.queryErr != nil:
				assert.Error(t, err)
				assert.False(t, got)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStorage_DeleteExpiredTokens(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expire_date < \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := s.DeleteExpiredTokens(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
}
