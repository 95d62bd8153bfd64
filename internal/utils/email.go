package utils

import (
	"errors"
	"net/mail"
	"regexp"
)

// mail.ParseAddress implements RFC 5322, which accepts addresses
// without a dot in the domain. The regex rules those out.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrEmailEmpty   = errors.New("`email` is empty")
	ErrEmailInvalid = errors.New("`email` is not valid")
)

// ValidateEmail checks that email is a plain, routable address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailEmpty
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrEmailInvalid
	}
	if !emailRegex.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}
