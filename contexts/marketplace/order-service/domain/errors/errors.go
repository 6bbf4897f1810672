package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidItems            = errors.New("invalid order items")
	ErrInvalidAddress          = errors.New("address is required")
	ErrInvalidPhone            = errors.New("phone number must be 10 digits")
	ErrInvalidIdempotencyKey   = errors.New("idempotency key must be at most 255 characters")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidOrderID          = errors.New("invalid order id")
	ErrUnavailableItems        = errors.New("some parts are unavailable")
	ErrOrderNotFound           = errors.New("order not found")
	ErrAccessDenied            = errors.New("access denied")
	ErrDuplicateIdempotencyKey = errors.New("order already exists for idempotency key")
	ErrCommitFailed            = errors.New("order could not be committed, retry the request")
	ErrRepositoryInvariant     = errors.New("order repository invariant broken")
)

// InvalidItemsError lists the zero-based request indexes that failed
// validation. It matches ErrInvalidItems with errors.Is.
type InvalidItemsError struct {
	Indexes []int
}

func (e InvalidItemsError) Error() string {
	if len(e.Indexes) == 0 {
		return "order must contain at least one item"
	}
	parts := make([]string, 0, len(e.Indexes))
	for _, index := range e.Indexes {
		parts = append(parts, strconv.Itoa(index))
	}
	return fmt.Sprintf("%s at positions [%s]", ErrInvalidItems.Error(), strings.Join(parts, ", "))
}

func (e InvalidItemsError) Is(target error) bool {
	return target == ErrInvalidItems
}

// UnavailableItemsError lists every requested part id that is missing or out
// of stock. It matches ErrUnavailableItems with errors.Is.
type UnavailableItemsError struct {
	PartIDs []int64
}

func (e UnavailableItemsError) Error() string {
	parts := make([]string, 0, len(e.PartIDs))
	for _, id := range e.PartIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return fmt.Sprintf("%s: [%s]", ErrUnavailableItems.Error(), strings.Join(parts, ", "))
}

func (e UnavailableItemsError) Is(target error) bool {
	return target == ErrUnavailableItems
}
