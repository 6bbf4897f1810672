package valueobjects

import (
	"regexp"
	"strings"

	domainerrors "carparts/contexts/identity-access/profile-service/domain/errors"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type PhoneNumber string

func NewPhoneNumber(raw string) (PhoneNumber, error) {
	value := strings.TrimSpace(raw)
	if !phonePattern.MatchString(value) {
		return "", domainerrors.ErrInvalidPhone
	}
	return PhoneNumber(value), nil
}

func (p PhoneNumber) String() string {
	return string(p)
}
