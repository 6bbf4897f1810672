package queries

import (
	"context"
	"log/slog"
	"strings"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type ListAllOrdersQuery struct {
	Actor  identityv1.Identity
	Status string
}

type ListAllOrdersUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (u ListAllOrdersUseCase) Execute(ctx context.Context, query ListAllOrdersQuery) ([]entities.Order, error) {
	if !query.Actor.IsAdmin() {
		return nil, domainerrors.ErrAccessDenied
	}
	filter := ports.OrderListFilter{}
	if strings.TrimSpace(query.Status) != "" {
		status, ok := entities.ParseOrderStatus(query.Status)
		if !ok {
			return nil, domainerrors.ErrInvalidStatus
		}
		filter.Status = status
	}

	orders, err := u.Orders.ListAllOrders(ctx, filter)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("list all orders failed",
			"event", "order_list_all_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	return orders, nil
}
