package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	orders "carparts/contexts/marketplace/order-service"
	"carparts/contexts/marketplace/order-service/adapters/memory"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"
	httptransport "carparts/contexts/marketplace/order-service/transport/http"
	identityv1 "carparts/contracts/identity/v1"

	"github.com/shopspring/decimal"
)

var (
	customer = identityv1.Identity{ID: 7, Email: "casey@example.com", Name: "Casey", Role: identityv1.RoleCustomer}
	admin    = identityv1.Identity{ID: 1, Email: "root@example.com", Name: "Root", Role: identityv1.RoleAdmin}
)

func seedCatalog(store *memory.Store) {
	store.SeedPart(entities.PartSnapshot{PartID: 5, SellerID: 3, Name: "Brake Pad", Price: decimal.RequireFromString("49.99"), InStock: true})
	store.SeedPart(entities.PartSnapshot{PartID: 6, SellerID: 3, Name: "Oil Filter", Price: decimal.RequireFromString("12.50"), InStock: true})
	store.SeedPart(entities.PartSnapshot{PartID: 8, SellerID: 4, Name: "Headlight", Price: decimal.RequireFromString("80"), InStock: false})
}

func orderRequest(key string, items ...httptransport.OrderItemRequest) httptransport.PlaceOrderRequest {
	if len(items) == 0 {
		items = []httptransport.OrderItemRequest{{PartID: "5", Quantity: "2"}}
	}
	return httptransport.PlaceOrderRequest{
		Items:          items,
		Address:        "12 Main St",
		PhoneNumber:    "9876543210",
		IdempotencyKey: key,
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)

	resp, err := module.Handler.PlaceOrderHandler(context.Background(), customer, "", orderRequest(""))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if resp.Replayed {
		t.Fatalf("expected fresh order")
	}
	if resp.Message != "Order placed successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	order := resp.Order
	if order.Status != string(entities.OrderStatusPlaced) || order.UserID != customer.ID {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.Address != "12 Main St" || order.PhoneNumber != "9876543210" {
		t.Fatalf("unexpected contact details: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].PartID != 5 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if order.Items[0].Part == nil || order.Items[0].Part.Name != "Brake Pad" {
		t.Fatalf("expected part details on item, got %+v", order.Items[0].Part)
	}
	if !order.Total.Equal(decimal.RequireFromString("99.98")) {
		t.Fatalf("expected total 99.98, got %s", order.Total)
	}

	events := module.Store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != "orders.placed" {
		t.Fatalf("expected one orders.placed outbox event, got %+v", events)
	}
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(events[0].Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.PartitionKey != "7" {
		t.Fatalf("expected partition key 7, got %q", envelope.PartitionKey)
	}
}

func TestPlaceOrderReplayReturnsOriginalWithoutStockCheck(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)
	ctx := context.Background()

	first, err := module.Handler.PlaceOrderHandler(ctx, customer, "", orderRequest("checkout-1"))
	if err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	checks := module.Store.AvailabilityChecks()

	second, err := module.Handler.PlaceOrderHandler(ctx, customer, "", orderRequest("checkout-1",
		httptransport.OrderItemRequest{PartID: "6", Quantity: "9"}))
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !second.Replayed || second.Message != "Order already placed" {
		t.Fatalf("expected replay, got %+v", second)
	}
	if second.Order.ID != first.Order.ID {
		t.Fatalf("expected order %d, got %d", first.Order.ID, second.Order.ID)
	}
	if second.Order.Items[0].PartID != 5 {
		t.Fatalf("expected original items on replay, got %+v", second.Order.Items)
	}
	if extra := module.Store.AvailabilityChecks() - checks; extra != 0 {
		t.Fatalf("expected zero availability checks on replay, got %d", extra)
	}
	if module.Store.OrderCount() != 1 {
		t.Fatalf("expected one order, got %d", module.Store.OrderCount())
	}
}

func TestPlaceOrderKeyFromHeaderWhenBodyOmitsIt(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)
	ctx := context.Background()

	first, err := module.Handler.PlaceOrderHandler(ctx, customer, "hdr-1", orderRequest(""))
	if err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	second, err := module.Handler.PlaceOrderHandler(ctx, customer, "hdr-1", orderRequest(""))
	if err != nil {
		t.Fatalf("second placement failed: %v", err)
	}
	if !second.Replayed || second.Order.ID != first.Order.ID {
		t.Fatalf("expected replay of %d, got %+v", first.Order.ID, second)
	}
}

func TestPlaceOrderKeysAreScopedPerUser(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)
	ctx := context.Background()
	other := identityv1.Identity{ID: 8, Role: identityv1.RoleCustomer}

	first, err := module.Handler.PlaceOrderHandler(ctx, customer, "", orderRequest("shared"))
	if err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	second, err := module.Handler.PlaceOrderHandler(ctx, other, "", orderRequest("shared"))
	if err != nil {
		t.Fatalf("second placement failed: %v", err)
	}
	if second.Replayed || second.Order.ID == first.Order.ID {
		t.Fatalf("expected a distinct order for another user, got %+v", second)
	}
}

func TestPlaceOrderUnavailableItemsRejectsWholeOrder(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)

	_, err := module.Handler.PlaceOrderHandler(context.Background(), customer, "", orderRequest("k",
		httptransport.OrderItemRequest{PartID: "5", Quantity: "1"},
		httptransport.OrderItemRequest{PartID: "8", Quantity: "1"},
		httptransport.OrderItemRequest{PartID: "404", Quantity: "1"},
	))
	if !errors.Is(err, domainerrors.ErrUnavailableItems) {
		t.Fatalf("expected ErrUnavailableItems, got %v", err)
	}
	var unavailable domainerrors.UnavailableItemsError
	if !errors.As(err, &unavailable) || !reflect.DeepEqual(unavailable.PartIDs, []int64{8, 404}) {
		t.Fatalf("expected part ids [8 404], got %+v", unavailable)
	}
	if module.Store.OrderCount() != 0 {
		t.Fatalf("expected no order row, got %d", module.Store.OrderCount())
	}
	if len(module.Store.OutboxEvents()) != 0 {
		t.Fatalf("expected no outbox event")
	}
}

func TestPlaceOrderValidationRunsBeforeStore(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)

	_, err := module.Handler.PlaceOrderHandler(context.Background(), customer, "", orderRequest("",
		httptransport.OrderItemRequest{PartID: "5", Quantity: "1"},
		httptransport.OrderItemRequest{PartID: "abc", Quantity: "1"},
		httptransport.OrderItemRequest{PartID: "6", Quantity: "0"},
	))
	var itemsErr domainerrors.InvalidItemsError
	if !errors.As(err, &itemsErr) || !reflect.DeepEqual(itemsErr.Indexes, []int{1, 2}) {
		t.Fatalf("expected invalid indexes [1 2], got %v", err)
	}
	if module.Store.AvailabilityChecks() != 0 {
		t.Fatalf("expected validation to short-circuit store access")
	}
}

func TestPlaceOrderCommitFailure(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)
	module.Store.FailNextCommit()

	_, err := module.Handler.PlaceOrderHandler(context.Background(), customer, "", orderRequest("retry-me"))
	if !errors.Is(err, domainerrors.ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed, got %v", err)
	}
	if module.Store.OrderCount() != 0 {
		t.Fatalf("expected no order after failed commit")
	}

	resp, err := module.Handler.PlaceOrderHandler(context.Background(), customer, "", orderRequest("retry-me"))
	if err != nil || resp.Replayed {
		t.Fatalf("expected retry to commit fresh, got %+v err=%v", resp, err)
	}
}

// racingRepository holds the first two idempotency lookups until both have
// run, so both callers pass dedup and race on the commit.
type racingRepository struct {
	ports.OrderRepository
	lookups atomic.Int32
	arrived sync.WaitGroup
}

func (r *racingRepository) FindOrderByUserAndIdempotencyKey(ctx context.Context, userID int64, key string) (entities.Order, bool, error) {
	order, found, err := r.OrderRepository.FindOrderByUserAndIdempotencyKey(ctx, userID, key)
	if r.lookups.Add(1) <= 2 {
		r.arrived.Done()
		r.arrived.Wait()
	}
	return order, found, err
}

func TestConcurrentPlacementsWithSameKeyProduceOneOrder(t *testing.T) {
	store := memory.NewStore(slog.Default())
	seedCatalog(store)
	repo := &racingRepository{OrderRepository: store}
	repo.arrived.Add(2)

	module := orders.NewModule(orders.Dependencies{
		Orders:      repo,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      slog.Default(),
	})

	type outcome struct {
		resp httptransport.PlaceOrderResponse
		err  error
	}
	results := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp, err := module.Handler.PlaceOrderHandler(context.Background(), customer, "", orderRequest("double-click"))
			results <- outcome{resp: resp, err: err}
		}()
	}

	var got []outcome
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case res := <-results:
			got = append(got, res)
		case <-timeout:
			t.Fatalf("placements did not finish")
		}
	}

	for _, res := range got {
		if res.err != nil {
			t.Fatalf("expected both callers to succeed, got %v", res.err)
		}
	}
	if got[0].resp.Order.ID != got[1].resp.Order.ID {
		t.Fatalf("expected same order id, got %d and %d", got[0].resp.Order.ID, got[1].resp.Order.ID)
	}
	if got[0].resp.Replayed == got[1].resp.Replayed {
		t.Fatalf("expected exactly one replay, got %v and %v", got[0].resp.Replayed, got[1].resp.Replayed)
	}
	if store.OrderCount() != 1 {
		t.Fatalf("expected one order row, got %d", store.OrderCount())
	}
	if len(store.OutboxEvents()) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(store.OutboxEvents()))
	}
}

func TestGetOrderHidesOtherUsersOrders(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)
	ctx := context.Background()

	placed, err := module.Handler.PlaceOrderHandler(ctx, customer, "", orderRequest(""))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	stranger := identityv1.Identity{ID: 99, Role: identityv1.RoleSeller}
	if _, err := module.Handler.GetOrderHandler(ctx, stranger, placed.Order.ID); !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for stranger, got %v", err)
	}
	if _, err := module.Handler.GetOrderHandler(ctx, customer, placed.Order.ID); err != nil {
		t.Fatalf("expected owner to read order, got %v", err)
	}
	if _, err := module.Handler.GetOrderHandler(ctx, admin, placed.Order.ID); err != nil {
		t.Fatalf("expected admin to read order, got %v", err)
	}

	mine, err := module.Handler.ListMyOrdersHandler(ctx, stranger)
	if err != nil || len(mine.Orders) != 0 {
		t.Fatalf("expected stranger to see no orders, got %+v err=%v", mine, err)
	}
}

func TestAdminOrderAdministration(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	seedCatalog(module.Store)
	module.Store.SeedCustomer(entities.Customer{UserID: customer.ID, Name: customer.Name, Email: customer.Email})
	ctx := context.Background()

	placed, err := module.Handler.PlaceOrderHandler(ctx, customer, "", orderRequest("",
		httptransport.OrderItemRequest{PartID: "5", Quantity: "1"},
		httptransport.OrderItemRequest{PartID: "6", Quantity: "2"},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := module.Handler.ListAllOrdersHandler(ctx, customer, ""); !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for customer, got %v", err)
	}
	all, err := module.Handler.ListAllOrdersHandler(ctx, admin, "")
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all.Orders) != 1 || !all.Orders[0].Total.Equal(decimal.RequireFromString("74.99")) {
		t.Fatalf("expected one order totalling 74.99, got %+v", all.Orders)
	}
	if all.Orders[0].User == nil || all.Orders[0].User.Email != customer.Email {
		t.Fatalf("expected customer summary, got %+v", all.Orders[0].User)
	}

	_, err = module.Handler.UpdateOrderStatusHandler(ctx, admin, placed.Order.ID, httptransport.UpdateOrderStatusRequest{Status: "Delivered"})
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	_, err = module.Handler.UpdateOrderStatusHandler(ctx, admin, 404, httptransport.UpdateOrderStatusRequest{Status: "Shipped"})
	if !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	updated, err := module.Handler.UpdateOrderStatusHandler(ctx, admin, placed.Order.ID, httptransport.UpdateOrderStatusRequest{Status: "Shipped"})
	if err != nil || updated.Order.Status != "Shipped" {
		t.Fatalf("expected shipped order, got %+v err=%v", updated, err)
	}

	shipped, err := module.Handler.ListAllOrdersHandler(ctx, admin, "shipped")
	if err != nil || len(shipped.Orders) != 1 {
		t.Fatalf("expected status filter to match, got %+v err=%v", shipped, err)
	}
	if len(module.Store.OutboxEvents()) != 2 {
		t.Fatalf("expected placed and status events, got %d", len(module.Store.OutboxEvents()))
	}
}
