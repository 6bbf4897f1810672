package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"carparts/contexts/marketplace/parts-service/adapters/memory"
	"carparts/contexts/marketplace/parts-service/application"
	"carparts/contexts/marketplace/parts-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/parts-service/domain/errors"
	"carparts/contexts/marketplace/parts-service/domain/services"
	"carparts/contexts/marketplace/parts-service/ports"
	identityv1 "carparts/contracts/identity/v1"

	"github.com/shopspring/decimal"
)

var (
	sellerA  = identityv1.Identity{ID: 10, Role: identityv1.RoleSeller}
	sellerB  = identityv1.Identity{ID: 11, Role: identityv1.RoleSeller}
	admin    = identityv1.Identity{ID: 1, Role: identityv1.RoleAdmin}
	customer = identityv1.Identity{ID: 20, Role: identityv1.RoleCustomer}
)

func newService() (application.Service, *memory.Store) {
	store := memory.NewStore()
	return application.Service{Repo: store, Clock: store, IDGenerator: store}, store
}

func brakePad() services.PartDraft {
	price := decimal.RequireFromString("49.99")
	year := 2020
	return services.PartDraft{
		Name:     "Brake Pad",
		Price:    &price,
		Category: "Brakes",
		CarName:  "Toyota",
		Model:    "Corolla",
		Year:     &year,
	}
}

func TestCreatePartDefaultsAndOwnership(t *testing.T) {
	service, store := newService()

	part, err := service.CreatePart(context.Background(), sellerA, brakePad())
	if err != nil {
		t.Fatalf("create part failed: %v", err)
	}
	if part.PartID == 0 || part.SellerID != sellerA.ID {
		t.Fatalf("unexpected part: %+v", part)
	}
	if !part.InStock {
		t.Fatalf("expected inStock to default to true")
	}

	events := store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != application.EventTypePartChanged {
		t.Fatalf("expected one parts.changed event, got %+v", events)
	}
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(events[0].Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data["action"] != ports.ChangeCreated {
		t.Fatalf("expected created action, got %v err=%v", data, err)
	}
}

func TestCreatePartRejectsCustomers(t *testing.T) {
	service, _ := newService()
	if _, err := service.CreatePart(context.Background(), customer, brakePad()); !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestCreatePartValidation(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	missing := brakePad()
	missing.Category = " "
	if _, err := service.CreatePart(ctx, sellerA, missing); !errors.Is(err, domainerrors.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	negative := brakePad()
	price := decimal.NewFromInt(-1)
	negative.Price = &price
	if _, err := service.CreatePart(ctx, sellerA, negative); !errors.Is(err, domainerrors.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	free := brakePad()
	zero := decimal.Zero
	free.Price = &zero
	if _, err := service.CreatePart(ctx, sellerA, free); err != nil {
		t.Fatalf("expected zero price to be accepted, got %v", err)
	}

	future := brakePad()
	year := time.Now().UTC().Year() + 2
	future.Year = &year
	if _, err := service.CreatePart(ctx, sellerA, future); !errors.Is(err, domainerrors.ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}

	ancient := brakePad()
	old := 1899
	ancient.Year = &old
	if _, err := service.CreatePart(ctx, sellerA, ancient); !errors.Is(err, domainerrors.ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear for 1899, got %v", err)
	}
}

func TestSellerCannotEditAnotherSellersPartButAdminCan(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	part, err := service.CreatePart(ctx, sellerA, brakePad())
	if err != nil {
		t.Fatalf("create part failed: %v", err)
	}
	name := "Stolen Pad"
	if _, err := service.UpdatePart(ctx, sellerB, part.PartID, application.PartPatch{Name: &name}); !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for other seller, got %v", err)
	}
	if err := service.DeletePart(ctx, sellerB, part.PartID); !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied on delete, got %v", err)
	}

	name = "Ceramic Brake Pad"
	outOfStock := false
	updated, err := service.UpdatePart(ctx, admin, part.PartID, application.PartPatch{Name: &name, InStock: &outOfStock})
	if err != nil {
		t.Fatalf("expected admin update to succeed, got %v", err)
	}
	if updated.Name != name || updated.InStock || updated.SellerID != sellerA.ID {
		t.Fatalf("unexpected updated part: %+v", updated)
	}
	if !updated.Price.Equal(decimal.RequireFromString("49.99")) || updated.Category != "Brakes" {
		t.Fatalf("expected untouched fields to survive partial update, got %+v", updated)
	}

	if err := service.DeletePart(ctx, admin, part.PartID); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
	if _, err := service.GetPart(ctx, part.PartID); !errors.Is(err, domainerrors.ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound after delete, got %v", err)
	}
}

func TestUpdateMissingPart(t *testing.T) {
	service, _ := newService()
	if _, err := service.UpdatePart(context.Background(), admin, 42, application.PartPatch{}); !errors.Is(err, domainerrors.ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}
}

func TestListPartsFiltersAndOrdering(t *testing.T) {
	service, store := newService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SeedPart(entities.Part{SellerID: 10, Name: "Old Filter", CarName: "Toyota", Model: "Corolla", Category: "Filters", Year: 2018, CreatedAt: base})
	store.SeedPart(entities.Part{SellerID: 11, Name: "New Filter", CarName: "toyota", Model: "Camry", Category: "Filters", Year: 2021, CreatedAt: base.Add(time.Hour)})
	store.SeedPart(entities.Part{SellerID: 10, Name: "Spark Plug", CarName: "Honda", Model: "Civic", Category: "Ignition", Year: 2021, CreatedAt: base.Add(2 * time.Hour)})

	parts, err := service.ListParts(context.Background(), ports.PartFilter{CarName: "TOYO"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(parts) != 2 || parts[0].Name != "New Filter" || parts[1].Name != "Old Filter" {
		t.Fatalf("expected toyota parts newest first, got %+v", parts)
	}

	parts, _ = service.ListParts(context.Background(), ports.PartFilter{Year: 2021, Category: "ignition"})
	if len(parts) != 1 || parts[0].Name != "Spark Plug" {
		t.Fatalf("expected only spark plug, got %+v", parts)
	}

	mine, err := service.ListSellerParts(context.Background(), sellerA)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected two parts for seller A, got %d err=%v", len(mine), err)
	}
	if _, err := service.ListSellerParts(context.Background(), customer); !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for customer, got %v", err)
	}
}
