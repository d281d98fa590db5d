package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Admin passwords are hashed with bcrypt, which ignores input past 72 bytes.
const (
	minPasswordLength = 12
	maxPasswordBytes  = 72
)

// Fragments that show up in guessable admin passwords for a childcare site.
var weakPasswordParts = []string{
	"password", "123456", "qwerty", "letmein", "welcome", "admin",
	"littlesteps", "babysit", "nanny", "childcare",
}

// ValidatePassword checks a new admin password before it is hashed.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("admin password must be at most %d bytes", maxPasswordBytes)
	}

	lower := strings.ToLower(password)
	for _, part := range weakPasswordParts {
		if strings.Contains(lower, part) {
			return fmt.Errorf("admin password must not contain %q", part)
		}
	}
	return nil
}
