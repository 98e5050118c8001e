package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
		errMsg  string
	}{
		{name: "valid email", email: "alice@example.com"},
		{name: "valid email with plus", email: "alice+posts@example.com"},
		{name: "valid subdomain", email: "bob@mail.example.org"},
		{name: "empty email", email: "", wantErr: true, errMsg: "email cannot be empty"},
		{name: "missing at", email: "alice.example.com", wantErr: true, errMsg: "not a valid address"},
		{name: "missing local part", email: "@example.com", wantErr: true, errMsg: "not a valid address"},
		{name: "display name form", email: "Alice <alice@example.com>", wantErr: true, errMsg: "not a valid address"},
		{name: "leading space", email: " alice@example.com", wantErr: true, errMsg: "leading or trailing spaces"},
		{
			name:    "too long",
			email:   strings.Repeat("a", MaxEmailLen) + "@example.com",
			wantErr: true,
			errMsg:  "must not exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}
