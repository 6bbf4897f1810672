package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/application/commands"
	"carparts/contexts/marketplace/order-service/application/queries"
	"carparts/contexts/marketplace/order-service/domain/entities"
	"carparts/contexts/marketplace/order-service/domain/services"
	httptransport "carparts/contexts/marketplace/order-service/transport/http"
	identityv1 "carparts/contracts/identity/v1"
)

// Handler maps HTTP DTOs to order use cases.
type Handler struct {
	PlaceOrder   commands.PlaceOrderUseCase
	UpdateStatus commands.UpdateOrderStatusUseCase
	ListMine     queries.ListMyOrdersUseCase
	GetOrder     queries.GetOrderUseCase
	ListAll      queries.ListAllOrdersUseCase
	Logger       *slog.Logger
}

// PlaceOrderHandler godoc
// @Summary Place order
// @Description Places a multi-item order. Repeating a request with the same idempotency key returns the original order.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (used when the body omits idempotencyKey)"
// @Param request body httptransport.PlaceOrderRequest true "Order"
// @Success 201 {object} httptransport.PlaceOrderResponse
// @Success 200 {object} httptransport.PlaceOrderResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /api/orders [post]
func (h Handler) PlaceOrderHandler(
	ctx context.Context,
	actor identityv1.Identity,
	headerKey string,
	req httptransport.PlaceOrderRequest,
) (httptransport.PlaceOrderResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	key := req.IdempotencyKey
	if strings.TrimSpace(key) == "" {
		key = headerKey
	}
	logger.Debug("place order request received",
		"event", "http_place_order_received",
		"module", "marketplace/order-service",
		"layer", "transport",
		"user_id", actor.ID,
		"item_count", len(req.Items),
	)

	items := make([]services.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.RequestedItem{
			PartID:   parsePositive(item.PartID.String()),
			Quantity: parsePositive(item.Quantity.String()),
		})
	}
	result, err := h.PlaceOrder.Execute(ctx, commands.PlaceOrderCommand{
		Actor:          actor,
		Items:          items,
		Address:        req.Address,
		PhoneNumber:    req.PhoneNumber,
		IdempotencyKey: key,
	})
	if err != nil {
		return httptransport.PlaceOrderResponse{}, err
	}

	message := "Order placed successfully"
	if result.Replayed {
		message = "Order already placed"
	}
	return httptransport.PlaceOrderResponse{
		Message:  message,
		Order:    mapOrder(result.Order),
		Replayed: result.Replayed,
	}, nil
}

// ListMyOrdersHandler godoc
// @Summary List my orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListOrdersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/orders [get]
func (h Handler) ListMyOrdersHandler(ctx context.Context, actor identityv1.Identity) (httptransport.ListOrdersResponse, error) {
	orders, err := h.ListMine.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	return mapOrders(orders), nil
}

// GetOrderHandler godoc
// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order id"
// @Success 200 {object} httptransport.OrderResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/orders/{id} [get]
func (h Handler) GetOrderHandler(ctx context.Context, actor identityv1.Identity, orderID int64) (httptransport.OrderResponse, error) {
	order, err := h.GetOrder.Execute(ctx, actor, orderID)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Order: mapOrder(order)}, nil
}

// ListAllOrdersHandler godoc
// @Summary List all orders
// @Description Every order with its customer and computed total, newest first. Admin only.
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Placed, Shipped or Cancelled"
// @Success 200 {object} httptransport.ListOrdersResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/admin/orders [get]
func (h Handler) ListAllOrdersHandler(ctx context.Context, actor identityv1.Identity, status string) (httptransport.ListOrdersResponse, error) {
	orders, err := h.ListAll.Execute(ctx, queries.ListAllOrdersQuery{Actor: actor, Status: status})
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	return mapOrders(orders), nil
}

// UpdateOrderStatusHandler godoc
// @Summary Update order status
// @Tags admin-orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order id"
// @Param request body httptransport.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} httptransport.OrderResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/admin/orders/{id}/status [put]
func (h Handler) UpdateOrderStatusHandler(
	ctx context.Context,
	actor identityv1.Identity,
	orderID int64,
	req httptransport.UpdateOrderStatusRequest,
) (httptransport.OrderResponse, error) {
	order, err := h.UpdateStatus.Execute(ctx, commands.UpdateOrderStatusCommand{
		Actor:   actor,
		OrderID: orderID,
		Status:  req.Status,
	})
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{
		Message: "Order status updated",
		Order:   mapOrder(order),
	}, nil
}

// parsePositive returns 0 for anything that is not a positive integer, which
// validation then reports by index.
func parsePositive(raw string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value < 1 {
		return 0
	}
	return value
}

func mapOrders(orders []entities.Order) httptransport.ListOrdersResponse {
	items := make([]httptransport.OrderDTO, 0, len(orders))
	for _, order := range orders {
		items = append(items, mapOrder(order))
	}
	return httptransport.ListOrdersResponse{Orders: items}
}

func mapOrder(order entities.Order) httptransport.OrderDTO {
	dto := httptransport.OrderDTO{
		ID:             order.OrderID,
		UserID:         order.UserID,
		Status:         string(order.Status),
		Address:        order.Address,
		PhoneNumber:    order.PhoneNumber,
		IdempotencyKey: order.IdempotencyKey,
		CreatedAt:      order.CreatedAt,
		Items:          make([]httptransport.OrderItemDTO, 0, len(order.Items)),
		Total:          order.Total(),
	}
	for _, item := range order.Items {
		itemDTO := httptransport.OrderItemDTO{
			ID:       item.ItemID,
			PartID:   item.PartID,
			Quantity: item.Quantity,
		}
		if item.Part != nil {
			itemDTO.Part = &httptransport.PartDTO{
				ID:       item.Part.PartID,
				SellerID: item.Part.SellerID,
				Name:     item.Part.Name,
				Price:    item.Part.Price,
				InStock:  item.Part.InStock,
				ImageURL: item.Part.ImageURL,
			}
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	if order.Customer != nil {
		dto.User = &httptransport.CustomerDTO{
			ID:    order.Customer.UserID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
		}
	}
	return dto
}
