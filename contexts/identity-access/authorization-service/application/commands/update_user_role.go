package commands

import (
	"context"
	"log/slog"

	application "carparts/contexts/identity-access/authorization-service/application"
	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/domain/services"
	"carparts/contexts/identity-access/authorization-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type UpdateUserRoleCommand struct {
	Actor  identityv1.Identity
	UserID int64
	Role   string
}

// UpdateUserRoleUseCase changes an account's role. Another admin's role is
// off limits; an admin may still change their own.
type UpdateUserRoleUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u UpdateUserRoleUseCase) Execute(ctx context.Context, cmd UpdateUserRoleCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.UserID <= 0 {
		return entities.User{}, domainerrors.ErrInvalidUserID
	}
	role := identityv1.NormalizeRole(cmd.Role)
	if !identityv1.IsKnownRole(role) {
		return entities.User{}, domainerrors.ErrInvalidRole
	}

	target, err := u.Users.FindUserByID(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if err := services.EnsureCanChangeRole(cmd.Actor, target); err != nil {
		logger.Warn("role change rejected",
			"event", "authz_role_change_rejected",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"admin_id", cmd.Actor.ID,
			"user_id", cmd.UserID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	updated, err := u.Users.UpdateUserRole(ctx, cmd.UserID, role)
	if err != nil {
		logger.Error("role change write failed",
			"event", "authz_role_change_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"admin_id", cmd.Actor.ID,
			"user_id", cmd.UserID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user role changed",
		"event", "authz_role_changed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"admin_id", cmd.Actor.ID,
		"user_id", cmd.UserID,
		"from_role", target.Role,
		"to_role", updated.Role,
	)
	return updated, nil
}
