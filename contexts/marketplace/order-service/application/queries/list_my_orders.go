package queries

import (
	"context"
	"log/slog"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type ListMyOrdersUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (u ListMyOrdersUseCase) Execute(ctx context.Context, actor identityv1.Identity) ([]entities.Order, error) {
	if actor.ID <= 0 {
		return nil, domainerrors.ErrAccessDenied
	}
	orders, err := u.Orders.ListOrdersByUser(ctx, actor.ID)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("list user orders failed",
			"event", "order_list_mine_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", actor.ID,
			"error", err.Error(),
		)
		return nil, err
	}
	return orders, nil
}
