package v1

import "strings"

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Identity is the authenticated caller handed from the auth pipeline to
// every module. Role is always the store value, lower-cased.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func IsKnownRole(role string) bool {
	switch NormalizeRole(role) {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

func (i Identity) IsAdmin() bool {
	return NormalizeRole(i.Role) == RoleAdmin
}
