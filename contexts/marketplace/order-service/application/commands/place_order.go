package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/domain/services"
	"carparts/contexts/marketplace/order-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

const defaultKeyCacheTTL = 24 * time.Hour

type PlaceOrderCommand struct {
	Actor          identityv1.Identity
	Items          []services.RequestedItem
	Address        string
	PhoneNumber    string
	IdempotencyKey string
}

type PlaceOrderResult struct {
	Order    entities.Order
	Replayed bool
}

type PlaceOrderUseCase struct {
	Orders      ports.OrderRepository
	KeyCache    ports.OrderKeyCache
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	KeyCacheTTL time.Duration
	Logger      *slog.Logger
}

// Execute runs the placement workflow in this order:
// 1) request validation
// 2) idempotency lookup (cache, then store) and replay
// 3) stock check over every distinct part
// 4) atomic order + items + outbox commit
// 5) cache write for the (user, key) pair.
func (u PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.Actor.ID <= 0 {
		return PlaceOrderResult{}, domainerrors.ErrAccessDenied
	}

	validated, err := services.ValidateOrderRequest(services.OrderRequest{
		Items:          cmd.Items,
		Address:        cmd.Address,
		PhoneNumber:    cmd.PhoneNumber,
		IdempotencyKey: cmd.IdempotencyKey,
	})
	if err != nil {
		logger.Warn("place order rejected by validation",
			"event", "order_place_validation_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return PlaceOrderResult{}, err
	}

	if validated.IdempotencyKey != "" {
		existing, found, err := u.lookupExisting(ctx, cmd.Actor.ID, validated.IdempotencyKey)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		if found {
			logger.Info("place order replayed",
				"event", "order_place_replayed",
				"module", "marketplace/order-service",
				"layer", "application",
				"user_id", cmd.Actor.ID,
				"order_id", existing.OrderID,
			)
			return PlaceOrderResult{Order: existing, Replayed: true}, nil
		}
	}

	partIDs := validated.DistinctPartIDs()
	available, err := u.Orders.FindAvailablePartsByIDs(ctx, partIDs)
	if err != nil {
		logger.Error("part availability lookup failed",
			"event", "order_place_stock_check_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return PlaceOrderResult{}, err
	}
	if missing := services.MissingPartIDs(partIDs, available); len(missing) > 0 {
		logger.Info("place order rejected for unavailable parts",
			"event", "order_place_unavailable_items",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", cmd.Actor.ID,
			"part_ids", missing,
		)
		return PlaceOrderResult{}, domainerrors.UnavailableItemsError{PartIDs: missing}
	}

	now := u.now()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	newOrder := ports.NewOrder{
		UserID:         cmd.Actor.ID,
		Address:        validated.Address,
		PhoneNumber:    validated.PhoneNumber,
		IdempotencyKey: validated.IdempotencyKey,
		Items:          make([]ports.NewOrderItem, 0, len(validated.Items)),
		CreatedAt:      now,
	}
	for _, item := range validated.Items {
		newOrder.Items = append(newOrder.Items, ports.NewOrderItem{PartID: item.PartID, Quantity: item.Quantity})
	}

	order, err := u.Orders.CreateOrderWithItems(ctx, newOrder, ports.OrderEvent{
		EventID:    eventID,
		EventType:  application.EventTypeOrderPlaced,
		OccurredAt: now,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateIdempotencyKey) && validated.IdempotencyKey != "" {
			winner, found, lookupErr := u.Orders.FindOrderByUserAndIdempotencyKey(ctx, cmd.Actor.ID, validated.IdempotencyKey)
			if lookupErr == nil && found {
				logger.Info("place order lost commit race and replayed winner",
					"event", "order_place_race_replayed",
					"module", "marketplace/order-service",
					"layer", "application",
					"user_id", cmd.Actor.ID,
					"order_id", winner.OrderID,
				)
				u.cacheOrderID(ctx, logger, cmd.Actor.ID, validated.IdempotencyKey, winner.OrderID)
				return PlaceOrderResult{Order: winner, Replayed: true}, nil
			}
			if lookupErr != nil {
				err = lookupErr
			}
		}
		if errors.Is(err, domainerrors.ErrCommitFailed) {
			return PlaceOrderResult{}, err
		}
		logger.Error("order commit failed",
			"event", "order_place_commit_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", domainerrors.ErrCommitFailed, err)
	}

	if validated.IdempotencyKey != "" {
		u.cacheOrderID(ctx, logger, cmd.Actor.ID, validated.IdempotencyKey, order.OrderID)
	}

	logger.Info("order placed",
		"event", "order_placed",
		"module", "marketplace/order-service",
		"layer", "application",
		"user_id", cmd.Actor.ID,
		"order_id", order.OrderID,
		"item_count", len(order.Items),
	)
	return PlaceOrderResult{Order: order}, nil
}

func (u PlaceOrderUseCase) lookupExisting(ctx context.Context, userID int64, key string) (entities.Order, bool, error) {
	logger := application.ResolveLogger(u.Logger)
	if u.KeyCache != nil {
		orderID, hit, err := u.KeyCache.GetOrderID(ctx, userID, key)
		if err != nil {
			logger.Warn("order key cache read failed",
				"event", "order_key_cache_get_failed",
				"module", "marketplace/order-service",
				"layer", "application",
				"user_id", userID,
				"error", err.Error(),
			)
		}
		if err == nil && hit {
			order, err := u.Orders.FindOrderByID(ctx, orderID)
			switch {
			case err == nil && order.UserID == userID && order.IdempotencyKey == key:
				return order, true, nil
			case err != nil && !errors.Is(err, domainerrors.ErrOrderNotFound):
				return entities.Order{}, false, err
			}
		}
	}

	order, found, err := u.Orders.FindOrderByUserAndIdempotencyKey(ctx, userID, key)
	if err != nil {
		logger.Error("idempotency lookup failed",
			"event", "order_place_idempotency_lookup_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return entities.Order{}, false, err
	}
	if found {
		u.cacheOrderID(ctx, logger, userID, key, order.OrderID)
	}
	return order, found, nil
}

func (u PlaceOrderUseCase) cacheOrderID(ctx context.Context, logger *slog.Logger, userID int64, key string, orderID int64) {
	if u.KeyCache == nil {
		return
	}
	ttl := u.KeyCacheTTL
	if ttl <= 0 {
		ttl = defaultKeyCacheTTL
	}
	if err := u.KeyCache.SetOrderID(ctx, userID, key, orderID, ttl); err != nil {
		logger.Warn("order key cache write failed",
			"event", "order_key_cache_set_failed",
			"module", "marketplace/order-service",
			"layer", "application",
			"user_id", userID,
			"order_id", orderID,
			"error", err.Error(),
		)
	}
}

func (u PlaceOrderUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
