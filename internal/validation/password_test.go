package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.NoError(t, ValidatePassword("x"))
}

func TestPasswordPolicyViolations(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{
			name:     "strong password",
			password: "Secret1!",
			want:     nil,
		},
		{
			name:     "unicode symbol counts as non alphanumeric",
			password: "Secret1§",
			want:     nil,
		},
		{
			name:     "too short",
			password: "Se1!",
			want:     []string{MsgPasswordTooShort},
		},
		{
			name:     "no symbol",
			password: "Secret12",
			want:     []string{MsgPasswordNonAlphanum},
		},
		{
			name:     "no digit",
			password: "Secret!!",
			want:     []string{MsgPasswordRequireDigit},
		},
		{
			name:     "no lowercase",
			password: "SECRET1!",
			want:     []string{MsgPasswordRequireLower},
		},
		{
			name:     "no uppercase",
			password: "secret1!",
			want:     []string{MsgPasswordRequireUpper},
		},
		{
			name:     "empty",
			password: "",
			want: []string{
				MsgPasswordTooShort,
				MsgPasswordNonAlphanum,
				MsgPasswordRequireDigit,
				MsgPasswordRequireLower,
				MsgPasswordRequireUpper,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordPolicyViolations(tt.password))
		})
	}
}
