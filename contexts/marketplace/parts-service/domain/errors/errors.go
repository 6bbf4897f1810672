package errors

import "errors"

var (
	ErrMissingFields  = errors.New("name, price, category, carName, model and year are required")
	ErrInvalidPrice   = errors.New("price must be a non-negative number")
	ErrInvalidYear    = errors.New("year is out of range")
	ErrInvalidPartID  = errors.New("invalid part id")
	ErrPartNotFound   = errors.New("part not found")
	ErrAccessDenied   = errors.New("you can only manage your own parts")
	ErrInvalidRequest = errors.New("invalid request")
	ErrRepository     = errors.New("parts repository invariant broken")
)
