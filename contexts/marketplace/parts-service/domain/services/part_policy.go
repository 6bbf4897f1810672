package services

import (
	"strings"
	"time"

	"carparts/contexts/marketplace/parts-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/parts-service/domain/errors"
	identityv1 "carparts/contracts/identity/v1"

	"github.com/shopspring/decimal"
)

const MinYear = 1900

// PartDraft is a fully specified part before persistence.
type PartDraft struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Category    string
	CarName     string
	Model       string
	Year        *int
	InStock     *bool
	ImageURL    string
}

// ValidateDraft trims text fields and checks price and model year. Year may
// be at most one past the current year to allow next model-year listings.
func ValidateDraft(draft PartDraft, now time.Time) (entities.Part, error) {
	part := entities.Part{
		Name:        strings.TrimSpace(draft.Name),
		Description: strings.TrimSpace(draft.Description),
		Category:    strings.TrimSpace(draft.Category),
		CarName:     strings.TrimSpace(draft.CarName),
		Model:       strings.TrimSpace(draft.Model),
		ImageURL:    strings.TrimSpace(draft.ImageURL),
		InStock:     true,
	}
	if part.Name == "" || part.Category == "" || part.CarName == "" || part.Model == "" ||
		draft.Price == nil || draft.Year == nil {
		return entities.Part{}, domainerrors.ErrMissingFields
	}
	if draft.Price.IsNegative() {
		return entities.Part{}, domainerrors.ErrInvalidPrice
	}
	if *draft.Year < MinYear || *draft.Year > now.Year()+1 {
		return entities.Part{}, domainerrors.ErrInvalidYear
	}
	part.Price = draft.Price.Round(2)
	part.Year = *draft.Year
	if draft.InStock != nil {
		part.InStock = *draft.InStock
	}
	return part, nil
}

// EnsureCanManage lets admins manage any part and sellers only their own.
func EnsureCanManage(actor identityv1.Identity, part entities.Part) error {
	switch actor.Role {
	case identityv1.RoleAdmin:
		return nil
	case identityv1.RoleSeller:
		if part.SellerID == actor.ID {
			return nil
		}
	}
	return domainerrors.ErrAccessDenied
}

// CanList reports whether the actor may create or own listings.
func CanList(actor identityv1.Identity) bool {
	return actor.ID > 0 && (actor.Role == identityv1.RoleSeller || actor.Role == identityv1.RoleAdmin)
}
