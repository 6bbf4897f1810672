package commands

import (
	"context"
	"log/slog"

	application "carparts/contexts/identity-access/authorization-service/application"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/domain/services"
	"carparts/contexts/identity-access/authorization-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type DeleteUserCommand struct {
	Actor  identityv1.Identity
	UserID int64
}

type DeleteUserUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	logger := application.ResolveLogger(u.Logger)
	if cmd.UserID <= 0 {
		return domainerrors.ErrInvalidUserID
	}

	target, err := u.Users.FindUserByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := services.EnsureCanDelete(cmd.Actor, target); err != nil {
		return err
	}
	if err := u.Users.DeleteUser(ctx, cmd.UserID); err != nil {
		logger.Error("delete user failed",
			"event", "authz_delete_user_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"admin_id", cmd.Actor.ID,
			"user_id", cmd.UserID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("user deleted",
		"event", "authz_user_deleted",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"admin_id", cmd.Actor.ID,
		"user_id", cmd.UserID,
	)
	return nil
}
