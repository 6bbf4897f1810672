package commands

import (
	"context"
	"log/slog"
	"time"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

type UpdateOrderStatusCommand struct {
	Actor   identityv1.Identity
	OrderID int64
	Status  string
}

type UpdateOrderStatusUseCase struct {
	Orders      ports.OrderRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u UpdateOrderStatusUseCase) Execute(ctx context.Context, cmd UpdateOrderStatusCommand) (entities.Order, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Actor.IsAdmin() {
		return entities.Order{}, domainerrors.ErrAccessDenied
	}
	if cmd.OrderID <= 0 {
		return entities.Order{}, domainerrors.ErrInvalidOrderID
	}
	status, ok := entities.ParseOrderStatus(cmd.Status)
	if !ok {
		return entities.Order{}, domainerrors.ErrInvalidStatus
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Order{}, err
	}
	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}

	order, err := u.Orders.UpdateOrderStatus(ctx, cmd.OrderID, status, ports.OrderEvent{
		EventID:    eventID,
		EventType:  application.EventTypeOrderStatusChanged,
		OccurredAt: now,
	})
	if err != nil {
		logger.Error("order status update failed",
			"event", "order_status_update_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"order_id", cmd.OrderID,
			"status", string(status),
			"error", err.Error(),
		)
		return entities.Order{}, err
	}

	logger.Info("order status updated",
		"event", "order_status_updated",
		"module", "marketplace/order-service",
		"layer", "application",
		"order_id", order.OrderID,
		"status", string(order.Status),
		"actor_id", cmd.Actor.ID,
	)
	return order, nil
}
