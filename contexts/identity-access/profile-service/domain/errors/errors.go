package errors

import "errors"

var (
	ErrInvalidPhone        = errors.New("phone number must be 10 digits")
	ErrInvalidAddress      = errors.New("address is too long")
	ErrInvalidAddressID    = errors.New("invalid address id")
	ErrAddressLimitReached = errors.New("you can only save up to 4 addresses")
	ErrAddressNotFound     = errors.New("address not found")
	ErrProfileNotFound     = errors.New("user not found")
	ErrUnauthenticated     = errors.New("user not authenticated")
)
