package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"carparts/contexts/identity-access/profile-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/profile-service/domain/errors"
	"carparts/contexts/identity-access/profile-service/ports"
)

// UserSource resolves directory users owned by the authorization module.
type UserSource func(ctx context.Context, userID int64) (entities.Profile, bool)

type Store struct {
	mu         sync.RWMutex
	profiles   map[int64]entities.Profile
	phones     map[int64]string
	addresses  map[int64]entities.Address
	nextID     int64
	userSource UserSource
}

func NewStore() *Store {
	return &Store{
		profiles:  make(map[int64]entities.Profile),
		phones:    make(map[int64]string),
		addresses: make(map[int64]entities.Address),
	}
}

func (s *Store) UseUserSource(source UserSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userSource = source
}

func (s *Store) SeedProfile(profile entities.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	if profile.PhoneNumber != "" {
		s.phones[profile.UserID] = profile.PhoneNumber
	}
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (entities.Profile, error) {
	s.mu.RLock()
	profile, ok := s.profiles[userID]
	phone, hasPhone := s.phones[userID]
	source := s.userSource
	s.mu.RUnlock()

	if !ok && source != nil {
		profile, ok = source(ctx, userID)
	}
	if !ok {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	if hasPhone {
		profile.PhoneNumber = phone
	}
	return profile, nil
}

func (s *Store) SaveContact(ctx context.Context, input ports.SaveContactInput) (entities.Profile, *entities.Address, error) {
	profile, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return entities.Profile{}, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var saved *entities.Address
	if input.Address != "" {
		if s.countLocked(input.UserID) >= input.MaxAddresses {
			return entities.Profile{}, nil, domainerrors.ErrAddressLimitReached
		}
		s.nextID++
		address := entities.Address{
			AddressID: s.nextID,
			UserID:    input.UserID,
			Value:     input.Address,
			CreatedAt: input.SavedAt.UTC(),
		}
		s.addresses[address.AddressID] = address
		saved = &address
	}
	s.phones[input.UserID] = input.PhoneNumber
	profile.PhoneNumber = input.PhoneNumber
	return profile, saved, nil
}

func (s *Store) ListAddresses(_ context.Context, userID int64) ([]entities.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Address, 0)
	for _, address := range s.addresses {
		if address.UserID == userID {
			items = append(items, address)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddressID < items[j].AddressID })
	return items, nil
}

func (s *Store) DeleteAddress(_ context.Context, userID int64, addressID int64) (entities.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	address, ok := s.addresses[addressID]
	if !ok || address.UserID != userID {
		return entities.Address{}, domainerrors.ErrAddressNotFound
	}
	delete(s.addresses, addressID)
	return address, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) countLocked(userID int64) int {
	count := 0
	for _, address := range s.addresses {
		if address.UserID == userID {
			count++
		}
	}
	return count
}
