package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
)

const MaxIdempotencyKeyLength = 255

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// RequestedItem is an order line as submitted. Zero or negative values mark
// entries the transport could not read as positive integers.
type RequestedItem struct {
	PartID   int64
	Quantity int64
}

type OrderRequest struct {
	Items          []RequestedItem
	Address        string
	PhoneNumber    string
	IdempotencyKey string
}

type ValidatedItem struct {
	PartID   int64
	Quantity int
}

// ValidatedOrder is the only input the placement workflow accepts past the
// validation stage.
type ValidatedOrder struct {
	Items          []ValidatedItem
	Address        string
	PhoneNumber    string
	IdempotencyKey string
}

// ValidateOrderRequest checks the whole request before any store access.
// A single bad item rejects the order; subsets are never accepted.
func ValidateOrderRequest(req OrderRequest) (ValidatedOrder, error) {
	if len(req.Items) == 0 {
		return ValidatedOrder{}, domainerrors.InvalidItemsError{}
	}
	var invalid []int
	items := make([]ValidatedItem, 0, len(req.Items))
	for index, item := range req.Items {
		if item.PartID < 1 || item.Quantity < 1 || item.Quantity > int64(maxInt) {
			invalid = append(invalid, index)
			continue
		}
		items = append(items, ValidatedItem{PartID: item.PartID, Quantity: int(item.Quantity)})
	}
	if len(invalid) > 0 {
		return ValidatedOrder{}, domainerrors.InvalidItemsError{Indexes: invalid}
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return ValidatedOrder{}, domainerrors.ErrInvalidAddress
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if !phonePattern.MatchString(phone) {
		return ValidatedOrder{}, domainerrors.ErrInvalidPhone
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if utf8.RuneCountInString(key) > MaxIdempotencyKeyLength {
		return ValidatedOrder{}, domainerrors.ErrInvalidIdempotencyKey
	}

	return ValidatedOrder{
		Items:          items,
		Address:        address,
		PhoneNumber:    phone,
		IdempotencyKey: key,
	}, nil
}

// DistinctPartIDs returns the requested part ids, sorted and de-duplicated.
func (v ValidatedOrder) DistinctPartIDs() []int64 {
	seen := make(map[int64]struct{}, len(v.Items))
	ids := make([]int64, 0, len(v.Items))
	for _, item := range v.Items {
		if _, ok := seen[item.PartID]; ok {
			continue
		}
		seen[item.PartID] = struct{}{}
		ids = append(ids, item.PartID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MissingPartIDs reports every requested id absent from the available set.
func MissingPartIDs(requested []int64, available []entities.PartSnapshot) []int64 {
	found := make(map[int64]struct{}, len(available))
	for _, part := range available {
		if part.InStock {
			found[part.PartID] = struct{}{}
		}
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

const maxInt = int(^uint(0) >> 1)
