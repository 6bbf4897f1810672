package application

import (
	"encoding/json"
	"strconv"

	"carparts/contexts/marketplace/order-service/domain/entities"
	"carparts/contexts/marketplace/order-service/ports"
)

const (
	EventTypeOrderPlaced        = "orders.placed"
	EventTypeOrderStatusChanged = "orders.status_changed"
	SourceService               = "order-service"
)

type orderEventItem struct {
	PartID   int64 `json:"part_id"`
	Quantity int   `json:"quantity"`
}

type orderEventData struct {
	OrderID        int64            `json:"order_id"`
	UserID         int64            `json:"user_id"`
	Status         string           `json:"status"`
	IdempotencyKey string           `json:"idempotency_key,omitempty"`
	Total          string           `json:"total"`
	Items          []orderEventItem `json:"items"`
}

// BuildOrderEnvelope renders the outbox envelope once the store has assigned
// the order id. Orders are partitioned by user so one customer's events keep
// their relative order on the bus.
func BuildOrderEnvelope(order entities.Order, event ports.OrderEvent) (ports.EventEnvelope, error) {
	items := make([]orderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderEventItem{PartID: item.PartID, Quantity: item.Quantity})
	}
	data, err := json.Marshal(orderEventData{
		OrderID:        order.OrderID,
		UserID:         order.UserID,
		Status:         string(order.Status),
		IdempotencyKey: order.IdempotencyKey,
		Total:          order.Total().StringFixed(2),
		Items:          items,
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt.UTC(),
		SourceService:    SourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "user_id",
		PartitionKey:     strconv.FormatInt(order.UserID, 10),
		Data:             data,
	}, nil
}
