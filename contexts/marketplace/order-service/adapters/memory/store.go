package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"
)

// PartSource resolves catalog parts owned by another module. The composition
// root wires it to the parts catalog when both run in memory.
type PartSource func(ctx context.Context, partIDs []int64) ([]entities.PartSnapshot, error)

// CustomerSource resolves user summaries for admin listings.
type CustomerSource func(ctx context.Context, userID int64) (entities.Customer, bool)

type cacheEntry struct {
	orderID   int64
	expiresAt time.Time
}

// Store is an in-memory adapter implementing the order ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	parts       map[int64]entities.PartSnapshot
	customers   map[int64]entities.Customer
	orders      map[int64]entities.Order
	byUserKey   map[string]int64
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	keyCache    map[string]cacheEntry
	nextOrderID int64
	nextItemID  int64

	partSource     PartSource
	customerSource CustomerSource

	availabilityChecks atomic.Int64
	failNextCommit     atomic.Bool
	logger             *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		parts:      make(map[int64]entities.PartSnapshot),
		customers:  make(map[int64]entities.Customer),
		orders:     make(map[int64]entities.Order),
		byUserKey:  make(map[string]int64),
		outbox:     make(map[string]ports.OutboxMessage),
		outboxSent: make(map[string]time.Time),
		keyCache:   make(map[string]cacheEntry),
		logger:     application.ResolveLogger(logger),
	}
}

func (s *Store) UsePartSource(source PartSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partSource = source
}

func (s *Store) UseCustomerSource(source CustomerSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerSource = source
}

func (s *Store) SeedPart(part entities.PartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[part.PartID] = part
}

func (s *Store) SeedCustomer(customer entities.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[customer.UserID] = customer
}

// AvailabilityChecks counts FindAvailablePartsByIDs calls.
func (s *Store) AvailabilityChecks() int64 {
	return s.availabilityChecks.Load()
}

// FailNextCommit makes the next CreateOrderWithItems fail without writing.
func (s *Store) FailNextCommit() {
	s.failNextCommit.Store(true)
}

func (s *Store) FindAvailablePartsByIDs(ctx context.Context, partIDs []int64) ([]entities.PartSnapshot, error) {
	s.availabilityChecks.Add(1)
	parts, err := s.lookupParts(ctx, partIDs)
	if err != nil {
		return nil, err
	}
	available := make([]entities.PartSnapshot, 0, len(parts))
	for _, part := range parts {
		if part.InStock {
			available = append(available, part)
		}
	}
	return available, nil
}

func (s *Store) lookupParts(ctx context.Context, partIDs []int64) ([]entities.PartSnapshot, error) {
	s.mu.RLock()
	source := s.partSource
	found := make([]entities.PartSnapshot, 0, len(partIDs))
	var unresolved []int64
	for _, id := range partIDs {
		if part, ok := s.parts[id]; ok {
			found = append(found, part)
			continue
		}
		unresolved = append(unresolved, id)
	}
	s.mu.RUnlock()

	if source != nil && len(unresolved) > 0 {
		external, err := source(ctx, unresolved)
		if err != nil {
			return nil, err
		}
		found = append(found, external...)
	}
	return found, nil
}

func (s *Store) FindOrderByUserAndIdempotencyKey(_ context.Context, userID int64, key string) (entities.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orderID, ok := s.byUserKey[userKey(userID, key)]
	if !ok {
		return entities.Order{}, false, nil
	}
	order, ok := s.orders[orderID]
	if !ok {
		return entities.Order{}, false, domainerrors.ErrRepositoryInvariant
	}
	return cloneOrder(order), true, nil
}

func (s *Store) FindOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	s.mu.RLock()
	order, ok := s.orders[orderID]
	s.mu.RUnlock()
	if !ok {
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	return s.hydrate(ctx, order)
}

func (s *Store) CreateOrderWithItems(ctx context.Context, input ports.NewOrder, event ports.OrderEvent) (entities.Order, error) {
	if s.failNextCommit.CompareAndSwap(true, false) {
		return entities.Order{}, fmt.Errorf("%w: injected commit failure", domainerrors.ErrCommitFailed)
	}

	partIDs := make([]int64, 0, len(input.Items))
	for _, item := range input.Items {
		partIDs = append(partIDs, item.PartID)
	}
	parts, err := s.lookupParts(ctx, partIDs)
	if err != nil {
		return entities.Order{}, err
	}
	snapshots := make(map[int64]entities.PartSnapshot, len(parts))
	for _, part := range parts {
		snapshots[part.PartID] = part
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// One critical section stands in for the transaction: the unique
	// (user, key) check, order, items and outbox succeed or fail together.
	if input.IdempotencyKey != "" {
		if _, exists := s.byUserKey[userKey(input.UserID, input.IdempotencyKey)]; exists {
			return entities.Order{}, domainerrors.ErrDuplicateIdempotencyKey
		}
	}
	for _, item := range input.Items {
		if part, ok := snapshots[item.PartID]; !ok || !part.InStock {
			return entities.Order{}, fmt.Errorf("%w: part %d no longer available", domainerrors.ErrCommitFailed, item.PartID)
		}
	}

	s.nextOrderID++
	order := entities.Order{
		OrderID:        s.nextOrderID,
		UserID:         input.UserID,
		Status:         entities.OrderStatusPlaced,
		Address:        input.Address,
		PhoneNumber:    input.PhoneNumber,
		IdempotencyKey: input.IdempotencyKey,
		CreatedAt:      input.CreatedAt.UTC(),
		Items:          make([]entities.OrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		s.nextItemID++
		part := snapshots[item.PartID]
		order.Items = append(order.Items, entities.OrderItem{
			ItemID:   s.nextItemID,
			OrderID:  order.OrderID,
			PartID:   item.PartID,
			Quantity: item.Quantity,
			Part:     &part,
		})
	}

	if err := s.appendOutbox(order, event); err != nil {
		s.nextOrderID--
		return entities.Order{}, err
	}
	s.orders[order.OrderID] = order
	if input.IdempotencyKey != "" {
		s.byUserKey[userKey(input.UserID, input.IdempotencyKey)] = order.OrderID
	}

	s.logger.Info("order and outbox persisted in memory store",
		"event", "memory_create_order_with_items",
		"module", "marketplace/order-service",
		"layer", "adapter",
		"order_id", order.OrderID,
		"user_id", order.UserID,
		"outbox_event_id", event.EventID,
	)
	return cloneOrder(order), nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]entities.Order, error) {
	s.mu.RLock()
	orders := make([]entities.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	s.mu.RUnlock()
	return s.hydrateAll(ctx, orders, false)
}

func (s *Store) ListAllOrders(ctx context.Context, filter ports.OrderListFilter) ([]entities.Order, error) {
	s.mu.RLock()
	orders := make([]entities.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, order)
	}
	s.mu.RUnlock()
	return s.hydrateAll(ctx, orders, true)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status entities.OrderStatus, event ports.OrderEvent) (entities.Order, error) {
	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	order.Status = status
	if err := s.appendOutbox(order, event); err != nil {
		s.mu.Unlock()
		return entities.Order{}, err
	}
	s.orders[orderID] = order
	s.mu.Unlock()
	return s.hydrate(ctx, order)
}

// GetOrderID and SetOrderID let the store double as the idempotency key cache.
func (s *Store) GetOrderID(_ context.Context, userID int64, key string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.keyCache[userKey(userID, key)]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, false, nil
	}
	return entry.orderID, true, nil
}

func (s *Store) SetOrderID(_ context.Context, userID int64, key string, orderID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyCache[userKey(userID, key)] = cacheEntry{orderID: orderID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		messages = append(messages, s.outbox[id])
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariant
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		events = append(events, s.outbox[id])
	}
	return events
}

func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// appendOutbox must be called with the write lock held.
func (s *Store) appendOutbox(order entities.Order, event ports.OrderEvent) error {
	envelope, err := application.BuildOrderEnvelope(order, event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, exists := s.outbox[event.EventID]; exists {
		return domainerrors.ErrRepositoryInvariant
	}
	s.outbox[event.EventID] = ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, event.EventID)
	return nil
}

func (s *Store) hydrateAll(ctx context.Context, orders []entities.Order, withCustomer bool) ([]entities.Order, error) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].OrderID > orders[j].OrderID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	hydrated := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		item, err := s.hydrate(ctx, order)
		if err != nil {
			return nil, err
		}
		if withCustomer {
			item.Customer = s.customer(ctx, order.UserID)
		}
		hydrated = append(hydrated, item)
	}
	return hydrated, nil
}

// hydrate refreshes item part details from the catalog. Items whose part
// was deleted keep their snapshot.
func (s *Store) hydrate(ctx context.Context, order entities.Order) (entities.Order, error) {
	order = cloneOrder(order)
	partIDs := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		partIDs = append(partIDs, item.PartID)
	}
	parts, err := s.lookupParts(ctx, partIDs)
	if err != nil {
		return entities.Order{}, err
	}
	current := make(map[int64]entities.PartSnapshot, len(parts))
	for _, part := range parts {
		current[part.PartID] = part
	}
	for i := range order.Items {
		if part, ok := current[order.Items[i].PartID]; ok {
			order.Items[i].Part = &part
		}
	}
	return order, nil
}

func (s *Store) customer(ctx context.Context, userID int64) *entities.Customer {
	s.mu.RLock()
	customer, ok := s.customers[userID]
	source := s.customerSource
	s.mu.RUnlock()
	if ok {
		return &customer
	}
	if source != nil {
		if resolved, found := source(ctx, userID); found {
			return &resolved
		}
	}
	return nil
}

func cloneOrder(order entities.Order) entities.Order {
	items := make([]entities.OrderItem, len(order.Items))
	for i, item := range order.Items {
		if item.Part != nil {
			part := *item.Part
			item.Part = &part
		}
		items[i] = item
	}
	order.Items = items
	return order
}

func userKey(userID int64, key string) string {
	return strconv.FormatInt(userID, 10) + "|" + key
}
