package ports

import (
	"context"
	"time"

	"carparts/contexts/marketplace/order-service/domain/entities"
	contractsv1 "carparts/contracts/gen/events/v1"
)

// NewOrderItem is a validated order line ready for insertion.
type NewOrderItem struct {
	PartID   int64
	Quantity int
}

type NewOrder struct {
	UserID         int64
	Address        string
	PhoneNumber    string
	IdempotencyKey string
	Items          []NewOrderItem
	CreatedAt      time.Time
}

// OrderEvent is the outbound integration payload persisted to the outbox.
// The order id is assigned by the store, so the envelope is completed inside
// the write transaction.
type OrderEvent struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
}

type OrderListFilter struct {
	Status entities.OrderStatus
}

// OrderRepository owns order persistence and the read side of the parts
// catalog needed for stock checks.
type OrderRepository interface {
	// FindAvailablePartsByIDs returns the subset of ids that exist and are in stock.
	FindAvailablePartsByIDs(ctx context.Context, partIDs []int64) ([]entities.PartSnapshot, error)
	FindOrderByUserAndIdempotencyKey(ctx context.Context, userID int64, key string) (entities.Order, bool, error)
	FindOrderByID(ctx context.Context, orderID int64) (entities.Order, error)
	// CreateOrderWithItems must atomically persist the order, its items and
	// the outbox event. It returns ErrDuplicateIdempotencyKey when the
	// (user, key) pair already exists.
	CreateOrderWithItems(ctx context.Context, order NewOrder, event OrderEvent) (entities.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]entities.Order, error)
	ListAllOrders(ctx context.Context, filter OrderListFilter) ([]entities.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status entities.OrderStatus, event OrderEvent) (entities.Order, error)
}

// OrderKeyCache is the fast path in front of the idempotency unique index.
// Misses and failures fall through to the repository.
type OrderKeyCache interface {
	GetOrderID(ctx context.Context, userID int64, key string) (int64, bool, error)
	SetOrderID(ctx context.Context, userID int64, key string, orderID int64, ttl time.Duration) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
