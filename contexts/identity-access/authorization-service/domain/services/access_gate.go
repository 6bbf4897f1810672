package services

import (
	"strings"

	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	identityv1 "carparts/contracts/identity/v1"
)

// CapabilitySet is the ordered, de-duplicated list of roles an endpoint
// accepts. Comparison is case-insensitive.
type CapabilitySet struct {
	roles []string
}

func NewCapabilitySet(roles ...string) CapabilitySet {
	seen := make(map[string]struct{}, len(roles))
	items := make([]string, 0, len(roles))
	for _, role := range roles {
		value := strings.ToLower(strings.TrimSpace(role))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		items = append(items, value)
	}
	return CapabilitySet{roles: items}
}

func (c CapabilitySet) Roles() []string {
	return append([]string(nil), c.roles...)
}

func (c CapabilitySet) Allows(role string) bool {
	value := strings.ToLower(strings.TrimSpace(role))
	if value == "" {
		return false
	}
	for _, item := range c.roles {
		if item == value {
			return true
		}
	}
	return false
}

// Authorize rejects identities whose role is outside required. An empty set
// admits nobody.
func Authorize(identity identityv1.Identity, required CapabilitySet) error {
	if !required.Allows(identity.Role) {
		return domainerrors.ErrAccessDenied
	}
	return nil
}
