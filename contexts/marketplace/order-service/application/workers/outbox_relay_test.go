package workers_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	orders "carparts/contexts/marketplace/order-service"
	"carparts/contexts/marketplace/order-service/application/workers"
	"carparts/contexts/marketplace/order-service/domain/entities"
	"carparts/contexts/marketplace/order-service/ports"
	httptransport "carparts/contexts/marketplace/order-service/transport/http"
	identityv1 "carparts/contracts/identity/v1"

	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func placeOne(t *testing.T, module orders.Module) {
	t.Helper()
	module.Store.SeedPart(entities.PartSnapshot{PartID: 5, Name: "Brake Pad", Price: decimal.NewFromInt(10), InStock: true})
	_, err := module.Handler.PlaceOrderHandler(context.Background(),
		identityv1.Identity{ID: 3, Role: identityv1.RoleCustomer},
		"",
		httptransport.PlaceOrderRequest{
			Items:       []httptransport.OrderItemRequest{{PartID: "5", Quantity: "1"}},
			Address:     "1 Side Rd",
			PhoneNumber: "0123456789",
		})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	placeOne(t, module)

	publisher := &recordingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:      module.Store,
		Publisher:   publisher,
		Clock:       module.Store,
		TopicPrefix: "carparts.",
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(publisher.topics) != 1 || publisher.topics[0] != "carparts.orders.placed" {
		t.Fatalf("expected carparts.orders.placed, got %v", publisher.topics)
	}
	if publisher.events[0].PartitionKey != "3" {
		t.Fatalf("expected partition key 3, got %q", publisher.events[0].PartitionKey)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected nothing pending, got %d err=%v", len(pending), err)
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay cycle failed: %v", err)
	}
	if len(publisher.topics) != 1 {
		t.Fatalf("expected no republish, got %v", publisher.topics)
	}
}

func TestOutboxRelayKeepsRowPendingWhenPublishFails(t *testing.T) {
	module := orders.NewInMemoryModule(slog.Default())
	placeOne(t, module)

	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: &recordingPublisher{err: errors.New("broker down")},
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish error")
	}
	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected row to stay pending, got %d err=%v", len(pending), err)
	}
}
