package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/ports"
)

// Store is an in-memory user directory implementing the repository and clock
// ports. It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	users   map[int64]entities.User
	nextID  int64
	lookups int
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[int64]entities.User),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Now() time.Time {
	return s.now()
}

// SeedUser inserts or replaces a user record. A zero UserID is assigned the
// next sequence value.
func (s *Store) SeedUser(user entities.User) entities.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.UserID == 0 {
		user.UserID = s.nextID
	}
	if user.UserID >= s.nextID {
		s.nextID = user.UserID + 1
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.UserID] = user
	return user
}

// LookupCount reports how many directory reads have been served.
func (s *Store) LookupCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookups
}

func (s *Store) FindUserByID(_ context.Context, userID int64) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) FindUserByExternalID(_ context.Context, externalID string) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	for _, user := range s.users {
		if user.ExternalID != "" && user.ExternalID == externalID {
			return user, nil
		}
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0, len(s.users))
	for _, user := range s.users {
		items = append(items, user)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].UserID > items[j].UserID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CreateUser(_ context.Context, input ports.CreateUserInput) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, input.Email) {
			return entities.User{}, domainerrors.ErrEmailTaken
		}
	}
	user := entities.User{
		UserID:    s.nextID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: input.CreatedAt.UTC(),
	}
	s.nextID++
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) UpdateUserRole(_ context.Context, userID int64, role string) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	user.Role = role
	s.users[userID] = user
	return user, nil
}

func (s *Store) DeleteUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	delete(s.users, userID)
	return nil
}
