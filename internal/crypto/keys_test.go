package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)

	other, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other, "salts must differ between calls")
}

func TestRandomToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "refresh token size", size: RefreshTokenSize},
		{name: "single byte", size: 1},
		{name: "zero size", size: 0, wantErr: true},
		{name: "negative size", size: -4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := RandomToken(tt.size)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			raw, err := base64.RawURLEncoding.DecodeString(token)
			require.NoError(t, err)
			assert.Len(t, raw, tt.size)
		})
	}
}

func TestNewRefreshToken_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := NewRefreshToken()
		require.NoError(t, err)
		assert.NotContains(t, token, "=")
		_, dup := seen[token]
		assert.False(t, dup, "duplicate refresh token generated")
		seen[token] = struct{}{}
	}
}
