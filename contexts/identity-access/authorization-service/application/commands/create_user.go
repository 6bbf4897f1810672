package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "carparts/contexts/identity-access/authorization-service/application"
	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/domain/valueobjects"
	"carparts/contexts/identity-access/authorization-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type CreateUserCommand struct {
	Actor identityv1.Identity
	Name  string
	Email string
	Role  string
}

// CreateUserUseCase provisions an account on behalf of an admin.
type CreateUserUseCase struct {
	Users  ports.UserRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Actor.IsAdmin() {
		return entities.User{}, domainerrors.ErrAccessDenied
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return entities.User{}, domainerrors.ErrInvalidName
	}
	email, err := valueobjects.NewEmail(cmd.Email)
	if err != nil {
		return entities.User{}, err
	}
	role := identityv1.NormalizeRole(cmd.Role)
	if role == "" {
		role = identityv1.RoleCustomer
	}
	if !identityv1.IsKnownRole(role) {
		return entities.User{}, domainerrors.ErrInvalidRole
	}

	user, err := u.Users.CreateUser(ctx, ports.CreateUserInput{
		Name:      name,
		Email:     string(email),
		Role:      role,
		CreatedAt: u.now(),
	})
	if err != nil {
		logger.Error("create user failed",
			"event", "authz_create_user_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"admin_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user created",
		"event", "authz_user_created",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"admin_id", cmd.Actor.ID,
		"user_id", user.UserID,
		"role", user.Role,
	)
	return user, nil
}

func (u CreateUserUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
