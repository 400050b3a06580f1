package utils

import (
	"errors"
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword validates password format
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// NormalizePhone parses a phone number and returns it in E.164 format.
// Numbers must already carry their country code with a leading +.
func NormalizePhone(num string) (string, error) {
	if num == "" {
		return "", errors.New("missing phone number")
	}
	if num[0] != '+' {
		return "", errors.New("phone number must be in E.164 format with +")
	}

	parsed, err := phonenumbers.Parse(num, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", errors.New("invalid phone number")
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
