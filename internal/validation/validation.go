package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern is a pragmatic email check; full RFC 5322 validation is
// not attempted, the mail server has the final word.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// PhonePattern matches national mobile/landline numbers in local format
// (leading zero, area or carrier prefix, seven digits).
var PhonePattern = regexp.MustCompile(`^0(5\d|[2-4]|[8-9]|7\d)\d{7}$`)

const (
	// MinPasswordLen is the minimum password length
	MinPasswordLen = 8

	// PasswordSpecialSet is the fixed set of accepted special characters;
	// a password must contain at least one of them.
	PasswordSpecialSet = "!@#$%^&*-_"

	minNameLen = 2
	maxNameLen = 256
)

// ValidateEmail checks that email is plausibly deliverable
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// ValidatePassword checks the storefront password policy:
// at least MinPasswordLen characters and at least one special
// character from PasswordSpecialSet.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if !strings.ContainsAny(password, PasswordSpecialSet) {
		return fmt.Errorf("password must contain at least one special character (%s)", PasswordSpecialSet)
	}
	return nil
}

// ValidatePhone checks an optional phone number. Empty is allowed,
// callers decide whether the field is required.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !PhonePattern.MatchString(phone) {
		return fmt.Errorf("phone must be a valid mobile number (e.g. 0521234567)")
	}
	return nil
}

// ValidateName checks a display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < minNameLen {
		return fmt.Errorf("name must be at least %d characters long", minNameLen)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("name must not exceed %d characters", maxNameLen)
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
