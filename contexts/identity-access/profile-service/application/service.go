package application

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"carparts/contexts/identity-access/profile-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/profile-service/domain/errors"
	"carparts/contexts/identity-access/profile-service/domain/valueobjects"
	"carparts/contexts/identity-access/profile-service/ports"
)

const maxAddressLength = 500

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

type AddressBook struct {
	PhoneNumber string
	Addresses   []entities.Address
}

func (s Service) Me(ctx context.Context, userID int64) (entities.Profile, error) {
	if userID <= 0 {
		return entities.Profile{}, domainerrors.ErrUnauthenticated
	}
	return s.Repo.GetProfile(ctx, userID)
}

// SavePhoneAndAddress sets the phone and, when address is not blank, appends
// it to the address book.
func (s Service) SavePhoneAndAddress(
	ctx context.Context,
	userID int64,
	phone string,
	address string,
) (entities.Profile, *entities.Address, error) {
	if userID <= 0 {
		return entities.Profile{}, nil, domainerrors.ErrUnauthenticated
	}
	phoneNumber, err := valueobjects.NewPhoneNumber(phone)
	if err != nil {
		return entities.Profile{}, nil, err
	}
	address = strings.TrimSpace(address)
	if utf8.RuneCountInString(address) > maxAddressLength {
		return entities.Profile{}, nil, domainerrors.ErrInvalidAddress
	}
	profile, saved, err := s.Repo.SaveContact(ctx, ports.SaveContactInput{
		UserID:       userID,
		PhoneNumber:  phoneNumber.String(),
		Address:      address,
		MaxAddresses: entities.MaxAddresses,
		SavedAt:      s.now(),
	})
	if err != nil {
		resolveLogger(s.Logger).Warn("save phone and address failed",
			"event", "profile_save_contact_failed",
			"module", "identity-access/profile-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return entities.Profile{}, nil, err
	}
	resolveLogger(s.Logger).Info("phone and address saved",
		"event", "profile_contact_saved",
		"module", "identity-access/profile-service",
		"layer", "application",
		"user_id", userID,
		"address_added", saved != nil,
	)
	return profile, saved, nil
}

func (s Service) ListAddresses(ctx context.Context, userID int64) (AddressBook, error) {
	if userID <= 0 {
		return AddressBook{}, domainerrors.ErrUnauthenticated
	}
	profile, err := s.Repo.GetProfile(ctx, userID)
	if err != nil {
		return AddressBook{}, err
	}
	addresses, err := s.Repo.ListAddresses(ctx, userID)
	if err != nil {
		return AddressBook{}, err
	}
	return AddressBook{PhoneNumber: profile.PhoneNumber, Addresses: addresses}, nil
}

func (s Service) DeleteAddress(ctx context.Context, userID int64, addressID int64) (entities.Address, error) {
	if userID <= 0 {
		return entities.Address{}, domainerrors.ErrUnauthenticated
	}
	if addressID <= 0 {
		return entities.Address{}, domainerrors.ErrInvalidAddressID
	}
	return s.Repo.DeleteAddress(ctx, userID, addressID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
