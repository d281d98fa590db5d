package validation

import (
	"errors"
	"fmt"
	"net/mail"
)

// MaxEmailLength is the RFC 5321 limit for a forward path.
const MaxEmailLength = 254

// ValidateEmail checks an address used to look up bookings and data
// requests. Only a bare address is accepted: "Sam <sam@example.com>" parses
// as a mailbox but would never match a stored booking.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("must be a valid email address")
	}
	return nil
}
