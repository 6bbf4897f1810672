package services

import (
	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	identityv1 "carparts/contracts/identity/v1"
)

// EnsureCanChangeRole lets an admin edit anyone except another admin.
func EnsureCanChangeRole(actor identityv1.Identity, target entities.User) error {
	if !actor.IsAdmin() {
		return domainerrors.ErrAccessDenied
	}
	if identityv1.NormalizeRole(target.Role) == identityv1.RoleAdmin && target.UserID != actor.ID {
		return domainerrors.ErrAdminProtected
	}
	return nil
}

// EnsureCanDelete forbids deleting any admin account, the caller's included.
func EnsureCanDelete(actor identityv1.Identity, target entities.User) error {
	if !actor.IsAdmin() {
		return domainerrors.ErrAccessDenied
	}
	if identityv1.NormalizeRole(target.Role) == identityv1.RoleAdmin {
		return domainerrors.ErrAdminProtected
	}
	return nil
}
