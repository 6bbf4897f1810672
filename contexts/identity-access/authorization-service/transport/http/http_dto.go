package httptransport

import "time"

// ErrorResponse is the stable error body shared by every route.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
