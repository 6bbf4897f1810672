// Package bridge connects in-memory module stores that read data owned by
// another module. In postgres mode the modules share tables instead.
package bridge

import (
	"context"
	"time"

	authzmemory "carparts/contexts/identity-access/authorization-service/adapters/memory"
	profilememory "carparts/contexts/identity-access/profile-service/adapters/memory"
	profileentities "carparts/contexts/identity-access/profile-service/domain/entities"
	ordermemory "carparts/contexts/marketplace/order-service/adapters/memory"
	orderentities "carparts/contexts/marketplace/order-service/domain/entities"
	orderports "carparts/contexts/marketplace/order-service/ports"
	partsmemory "carparts/contexts/marketplace/parts-service/adapters/memory"
	partsports "carparts/contexts/marketplace/parts-service/ports"
)

// Stores groups the in-memory stores of every module.
type Stores struct {
	Users   *authzmemory.Store
	Parts   *partsmemory.Store
	Orders  *ordermemory.Store
	Profile *profilememory.Store
}

// Connect points the order and profile stores at the catalog and the user
// directory.
func Connect(stores Stores) {
	if stores.Orders != nil && stores.Parts != nil {
		stores.Orders.UsePartSource(func(ctx context.Context, partIDs []int64) ([]orderentities.PartSnapshot, error) {
			parts, err := stores.Parts.FindPartsByIDs(ctx, partIDs)
			if err != nil {
				return nil, err
			}
			snapshots := make([]orderentities.PartSnapshot, 0, len(parts))
			for _, part := range parts {
				snapshots = append(snapshots, orderentities.PartSnapshot{
					PartID:   part.PartID,
					SellerID: part.SellerID,
					Name:     part.Name,
					Price:    part.Price,
					InStock:  part.InStock,
					ImageURL: part.ImageURL,
				})
			}
			return snapshots, nil
		})
	}
	if stores.Orders != nil && stores.Users != nil {
		stores.Orders.UseCustomerSource(func(ctx context.Context, userID int64) (orderentities.Customer, bool) {
			user, err := stores.Users.FindUserByID(ctx, userID)
			if err != nil {
				return orderentities.Customer{}, false
			}
			return orderentities.Customer{UserID: user.UserID, Name: user.Name, Email: user.Email}, true
		})
	}
	if stores.Profile != nil && stores.Users != nil {
		stores.Profile.UseUserSource(func(ctx context.Context, userID int64) (profileentities.Profile, bool) {
			user, err := stores.Users.FindUserByID(ctx, userID)
			if err != nil {
				return profileentities.Profile{}, false
			}
			return profileentities.Profile{
				UserID:      user.UserID,
				Name:        user.Name,
				Email:       user.Email,
				Role:        user.Role,
				PhoneNumber: user.Phone,
			}, true
		})
	}
}

// PartsOutbox exposes the catalog outbox through the order relay's port so a
// single relay implementation drains both tables.
type PartsOutbox struct {
	Outbox partsports.OutboxRepository
}

func (p PartsOutbox) ListPendingOutbox(ctx context.Context, limit int) ([]orderports.OutboxMessage, error) {
	pending, err := p.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]orderports.OutboxMessage, 0, len(pending))
	for _, message := range pending {
		items = append(items, orderports.OutboxMessage{
			OutboxID:     message.OutboxID,
			EventType:    message.EventType,
			PartitionKey: message.PartitionKey,
			Payload:      message.Payload,
			CreatedAt:    message.CreatedAt,
		})
	}
	return items, nil
}

func (p PartsOutbox) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	return p.Outbox.MarkOutboxSent(ctx, outboxID, sentAt)
}
