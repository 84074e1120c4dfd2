package accounts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/mcnijman/go-emailaddress"
)

const (
	// UsernameMinLength and UsernameMaxLength bound the username length.
	UsernameMinLength = 3
	UsernameMaxLength = 20

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername checks that username is 3-20 characters of letters,
// digits, or underscore.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLength || len(username) > UsernameMaxLength {
		return fmt.Errorf("%w: must be %d-%d characters", common.ErrInvalidUsername, UsernameMinLength, UsernameMaxLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: only letters, digits and underscore are allowed", common.ErrInvalidUsername)
	}
	return nil
}

// ValidateEmail checks that email parses as an address with a domain.
func ValidateEmail(email string) error {
	if _, err := emailaddress.Parse(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidEmail, err)
	}
	return nil
}

// ValidatePassword checks the minimum length and requires at least one
// letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return fmt.Errorf("%w: minimum %d characters", common.ErrInvalidPassword, PasswordMinLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: needs at least one letter and one digit", common.ErrInvalidPassword)
	}
	return nil
}
