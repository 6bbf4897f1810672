package queries

import (
	"context"
	"errors"
	"log/slog"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type GetOrderUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

// Execute hides orders owned by other users behind ErrOrderNotFound so ids
// cannot be probed. Admins may read any order.
func (u GetOrderUseCase) Execute(ctx context.Context, actor identityv1.Identity, orderID int64) (entities.Order, error) {
	if orderID <= 0 {
		return entities.Order{}, domainerrors.ErrInvalidOrderID
	}
	order, err := u.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrOrderNotFound) {
			application.ResolveLogger(u.Logger).Error("get order failed",
				"event", "order_get_failed",
				"module", "marketplace/order-service",
				"layer", "application",
				"order_id", orderID,
				"error", err.Error(),
			)
		}
		return entities.Order{}, err
	}
	if order.UserID != actor.ID && !actor.IsAdmin() {
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}
