package ports

import (
	"context"
	"time"

	"carparts/contexts/identity-access/authorization-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// TokenValidator verifies a raw Authorization header value and returns the
// trusted claims. It performs no I/O.
type TokenValidator interface {
	Validate(ctx context.Context, authorizationHeader string) (entities.Claims, error)
}

// UserDirectory is the read boundary the identity resolver depends on.
// Lookups return ErrUserNotFound when no record matches.
type UserDirectory interface {
	FindUserByID(ctx context.Context, userID int64) (entities.User, error)
	FindUserByExternalID(ctx context.Context, externalID string) (entities.User, error)
}

// CreateUserInput is the persisted shape of an admin-created account.
type CreateUserInput struct {
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

// UserRepository backs admin user management.
type UserRepository interface {
	UserDirectory
	ListUsers(ctx context.Context) ([]entities.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (entities.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role string) (entities.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}
