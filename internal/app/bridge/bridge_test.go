package bridge_test

import (
	"context"
	"testing"
	"time"

	authzmemory "carparts/contexts/identity-access/authorization-service/adapters/memory"
	authzentities "carparts/contexts/identity-access/authorization-service/domain/entities"
	profilememory "carparts/contexts/identity-access/profile-service/adapters/memory"
	ordermemory "carparts/contexts/marketplace/order-service/adapters/memory"
	partsmemory "carparts/contexts/marketplace/parts-service/adapters/memory"
	partsapplication "carparts/contexts/marketplace/parts-service/application"
	partsentities "carparts/contexts/marketplace/parts-service/domain/entities"
	partsports "carparts/contexts/marketplace/parts-service/ports"
	identityv1 "carparts/contracts/identity/v1"
	"carparts/internal/app/bridge"

	"github.com/shopspring/decimal"
)

func connectedStores() bridge.Stores {
	stores := bridge.Stores{
		Users:   authzmemory.NewStore(),
		Parts:   partsmemory.NewStore(),
		Orders:  ordermemory.NewStore(nil),
		Profile: profilememory.NewStore(),
	}
	bridge.Connect(stores)
	return stores
}

func TestConnectResolvesCatalogPartsForOrders(t *testing.T) {
	stores := connectedStores()
	inStock := stores.Parts.SeedPart(partsentities.Part{
		SellerID: 7,
		Name:     "Brake pad",
		Price:    decimal.RequireFromString("49.99"),
		InStock:  true,
	})
	soldOut := stores.Parts.SeedPart(partsentities.Part{
		SellerID: 7,
		Name:     "Radiator",
		Price:    decimal.RequireFromString("120"),
		InStock:  false,
	})

	available, err := stores.Orders.FindAvailablePartsByIDs(context.Background(), []int64{inStock.PartID, soldOut.PartID, 999})
	if err != nil {
		t.Fatalf("find available parts failed: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("expected 1 available part, got %d", len(available))
	}
	if available[0].PartID != inStock.PartID || available[0].SellerID != 7 {
		t.Fatalf("unexpected snapshot: %+v", available[0])
	}
	if !available[0].Price.Equal(decimal.RequireFromString("49.99")) {
		t.Fatalf("expected price 49.99, got %s", available[0].Price)
	}
}

func TestConnectResolvesProfilesFromUserDirectory(t *testing.T) {
	stores := connectedStores()
	user := stores.Users.SeedUser(authzentities.User{
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  identityv1.RoleCustomer,
		Phone: "5551234567",
	})

	profile, err := stores.Profile.GetProfile(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Email != "ana@example.com" || profile.PhoneNumber != "5551234567" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := stores.Profile.GetProfile(context.Background(), user.UserID+100); err == nil {
		t.Fatalf("expected unknown user to fail")
	}
}

func TestPartsOutboxAdaptsCatalogRows(t *testing.T) {
	stores := connectedStores()
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := stores.Parts.CreatePart(context.Background(), partsentities.Part{
		SellerID: 3,
		Name:     "Spark plug",
		Price:    decimal.RequireFromString("8.50"),
		InStock:  true,
	}, partsports.PartChangedEvent{
		EventID:    "evt-1",
		EventType:  partsapplication.EventTypePartChanged,
		Action:     partsports.ChangeCreated,
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("create part failed: %v", err)
	}

	outbox := bridge.PartsOutbox{Outbox: stores.Parts}
	pending, err := outbox.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending row, got %d", len(pending))
	}
	if pending[0].OutboxID != "evt-1" || pending[0].EventType != partsapplication.EventTypePartChanged {
		t.Fatalf("unexpected row: %+v", pending[0])
	}
	if pending[0].PartitionKey == "" || !pending[0].CreatedAt.Equal(occurred) {
		t.Fatalf("expected partition key and created_at to carry over, got %+v", pending[0])
	}

	if err := outbox.MarkOutboxSent(context.Background(), "evt-1", occurred.Add(time.Second)); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	pending, err = outbox.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after mark sent, got %d", len(pending))
	}
}
