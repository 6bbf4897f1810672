package httpadapter

import (
	"context"
	"log/slog"

	application "carparts/contexts/identity-access/authorization-service/application"
	"carparts/contexts/identity-access/authorization-service/application/commands"
	"carparts/contexts/identity-access/authorization-service/application/queries"
	"carparts/contexts/identity-access/authorization-service/domain/entities"
	httptransport "carparts/contexts/identity-access/authorization-service/transport/http"
	identityv1 "carparts/contracts/identity/v1"
)

// Handler maps HTTP DTOs to the auth pipeline and admin user use cases.
type Handler struct {
	Authenticate queries.AuthenticateUseCase
	ListUsers    queries.ListUsersUseCase
	CreateUser   commands.CreateUserUseCase
	UpdateRole   commands.UpdateUserRoleUseCase
	DeleteUser   commands.DeleteUserUseCase
	Logger       *slog.Logger
}

// AuthenticateHandler resolves the caller behind an Authorization header.
func (h Handler) AuthenticateHandler(ctx context.Context, authorizationHeader string) (identityv1.Identity, error) {
	return h.Authenticate.Execute(ctx, authorizationHeader)
}

// ListUsersHandler godoc
// @Summary List users
// @Description Returns every account, newest first. Admin only.
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListUsersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/admin/users [get]
func (h Handler) ListUsersHandler(ctx context.Context, actor identityv1.Identity) (httptransport.ListUsersResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("list users request received",
		"event", "http_list_users_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"admin_id", actor.ID,
	)

	users, err := h.ListUsers.Execute(ctx)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	items := make([]httptransport.UserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, mapUser(user))
	}
	return httptransport.ListUsersResponse{Users: items}, nil
}

// CreateUserHandler godoc
// @Summary Create user
// @Description Provisions an account with the given role (customer by default).
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateUserRequest true "New user"
// @Success 201 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/admin/users [post]
func (h Handler) CreateUserHandler(
	ctx context.Context,
	actor identityv1.Identity,
	req httptransport.CreateUserRequest,
) (httptransport.UserResponse, error) {
	user, err := h.CreateUser.Execute(ctx, commands.CreateUserCommand{
		Actor: actor,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{
		Message: "User created successfully",
		User:    mapUser(user),
	}, nil
}

// UpdateUserRoleHandler godoc
// @Summary Change user role
// @Description Changes a user's role. Another admin's role cannot be changed.
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param request body httptransport.UpdateUserRoleRequest true "New role"
// @Success 200 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/admin/users/{id}/role [put]
func (h Handler) UpdateUserRoleHandler(
	ctx context.Context,
	actor identityv1.Identity,
	userID int64,
	req httptransport.UpdateUserRoleRequest,
) (httptransport.UserResponse, error) {
	user, err := h.UpdateRole.Execute(ctx, commands.UpdateUserRoleCommand{
		Actor:  actor,
		UserID: userID,
		Role:   req.Role,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{
		Message: "User role updated successfully",
		User:    mapUser(user),
	}, nil
}

// DeleteUserHandler godoc
// @Summary Delete user
// @Description Deletes a non-admin account.
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} httptransport.MessageResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/admin/users/{id} [delete]
func (h Handler) DeleteUserHandler(ctx context.Context, actor identityv1.Identity, userID int64) (httptransport.MessageResponse, error) {
	if err := h.DeleteUser.Execute(ctx, commands.DeleteUserCommand{Actor: actor, UserID: userID}); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "User deleted successfully"}, nil
}

func mapUser(user entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
