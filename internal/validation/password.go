package validation

import (
	"fmt"
	"unicode"
)

// MinPasswordLen is the shortest password accepted on registration
const MinPasswordLen = 6

// Password policy messages
const (
	MsgPasswordTooShort     = "Passwords must be at least 6 characters."
	MsgPasswordNonAlphanum  = "Passwords must have at least one non alphanumeric character."
	MsgPasswordRequireDigit = "Passwords must have at least one digit ('0'-'9')."
	MsgPasswordRequireLower = "Passwords must have at least one lowercase ('a'-'z')."
	MsgPasswordRequireUpper = "Passwords must have at least one uppercase ('A'-'Z')."
)

// ValidatePassword checks only that a password was supplied
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

// PasswordPolicyViolations returns one message per violated rule, in a fixed order.
// An empty result means the password is acceptable.
func PasswordPolicyViolations(password string) []string {
	var (
		hasDigit, hasLower, hasUpper, hasOther bool
		violations                             []string
	)

	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasOther = true
		}
	}

	if len([]rune(password)) < MinPasswordLen {
		violations = append(violations, MsgPasswordTooShort)
	}
	if !hasOther {
		violations = append(violations, MsgPasswordNonAlphanum)
	}
	if !hasDigit {
		violations = append(violations, MsgPasswordRequireDigit)
	}
	if !hasLower {
		violations = append(violations, MsgPasswordRequireLower)
	}
	if !hasUpper {
		violations = append(violations, MsgPasswordRequireUpper)
	}

	return violations
}
