package valueobjects

import (
	"regexp"
	"strings"

	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Email is a trimmed, lower-cased address that passed the format check.
type Email string

func NewEmail(v string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	if !emailPattern.MatchString(value) {
		return "", domainerrors.ErrInvalidEmail
	}
	return Email(value), nil
}
