package queries

import (
	"context"
	"log/slog"

	application "carparts/contexts/identity-access/authorization-service/application"
	"carparts/contexts/identity-access/authorization-service/domain/entities"
	"carparts/contexts/identity-access/authorization-service/ports"
)

// ListUsersUseCase returns every account, newest first.
type ListUsersUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u ListUsersUseCase) Execute(ctx context.Context) ([]entities.User, error) {
	users, err := u.Users.ListUsers(ctx)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("list users failed",
			"event", "authz_list_users_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	return users, nil
}
