package errors

import "errors"

var (
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrExpired           = errors.New("token expired")
	ErrUntrustedIssuer   = errors.New("untrusted token issuer")
	ErrMalformedClaims   = errors.New("malformed token claims")
	ErrUnknownIdentity   = errors.New("unknown identity")

	ErrAccessDenied   = errors.New("access denied")
	ErrAdminProtected = errors.New("admin accounts cannot be modified by other admins")

	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidName   = errors.New("name is required")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrInvalidRole   = errors.New("invalid role")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("user with this email already exists")
)

// IsUnauthenticated reports whether err belongs to the credential/identity
// family that maps to 401 rather than 403.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrUntrustedIssuer) ||
		errors.Is(err, ErrMalformedClaims) ||
		errors.Is(err, ErrUnknownIdentity)
}
