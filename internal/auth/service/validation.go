package service

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/taskcrate/backend/internal/common/constants"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return ErrValidation.WithCause(fmt.Errorf(
			"username must be %d-%d characters",
			constants.UsernameMinLength, constants.UsernameMaxLength,
		))
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidation.WithCause(fmt.Errorf(
			"password must be %d-%d characters",
			constants.PasswordMinLength, constants.PasswordMaxLength,
		))
	}

	if !isValidUsername(username) {
		return ErrValidation.WithCause(fmt.Errorf("username contains invalid characters"))
	}

	return nil
}

func validateRole(role userdomain.Role) error {
	if !role.Valid() {
		return ErrValidation.WithCause(fmt.Errorf("role must be %q or %q", userdomain.RoleUser, userdomain.RoleAdmin))
	}
	return nil
}

func isValidUsername(value string) bool {
	if !usernameRegex.MatchString(value) {
		return false
	}

	first := rune(value[0])
	last := rune(value[len(value)-1])
	if !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return false
	}
	if !unicode.IsLetter(last) && !unicode.IsDigit(last) {
		return false
	}

	return true
}
