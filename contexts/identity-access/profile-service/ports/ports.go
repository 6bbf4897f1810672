package ports

import (
	"context"
	"time"

	"carparts/contexts/identity-access/profile-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type SaveContactInput struct {
	UserID       int64
	PhoneNumber  string
	Address      string
	MaxAddresses int
	SavedAt      time.Time
}

type Repository interface {
	GetProfile(ctx context.Context, userID int64) (entities.Profile, error)
	// SaveContact must update the phone and append the optional address
	// atomically, enforcing MaxAddresses inside the same transaction.
	SaveContact(ctx context.Context, input SaveContactInput) (entities.Profile, *entities.Address, error)
	ListAddresses(ctx context.Context, userID int64) ([]entities.Address, error)
	// DeleteAddress returns ErrAddressNotFound when the address does not
	// belong to userID.
	DeleteAddress(ctx context.Context, userID int64, addressID int64) (entities.Address, error)
}
