package api

import (
	"regexp"  // Regular expressions
	"strings" // String manipulation
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NormalizeIdentity lowercases and trims a username or email so duplicate
// checks and lookups are case-insensitive.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateRegistration returns the full list of input problems, empty when
// the request is acceptable. Validation runs before any mutation.
func ValidateRegistration(username, email, password string) []string {
	var errs []string
	if !usernameRe.MatchString(username) {
		errs = append(errs, "username must be 3-30 characters, letters, digits or underscore")
	}
	if !emailRe.MatchString(email) {
		errs = append(errs, "email is not a valid address")
	}
	errs = append(errs, validatePassword(password)...)
	return errs
}

// validatePassword checks the password policy shared by registration and reset
func validatePassword(password string) []string {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if len(password) > 72 {
		errs = append(errs, "password must be at most 72 characters") // bcrypt input limit
	}
	return errs
}
