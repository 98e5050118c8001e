package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// MaxEmailLen is the longest address accepted on registration
const MaxEmailLen = 254

// ValidateEmail checks that email is a bare, well-formed address
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if strings.TrimSpace(email) != email {
		return fmt.Errorf("email must not contain leading or trailing spaces")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("email is not a valid address")
	}

	return nil
}
