package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"carparts/contexts/marketplace/parts-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/parts-service/domain/errors"
	"carparts/contexts/marketplace/parts-service/domain/services"
	"carparts/contexts/marketplace/parts-service/ports"
	identityv1 "carparts/contracts/identity/v1"

	"github.com/shopspring/decimal"
)

const (
	EventTypePartChanged = "parts.changed"
	SourceService        = "parts-service"
)

// PartPatch carries the fields of a partial update. Nil leaves the stored
// value unchanged.
type PartPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	CarName     *string
	Model       *string
	Year        *int
	InStock     *bool
	ImageURL    *string
}

type Service struct {
	Repo        ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s Service) ListParts(ctx context.Context, filter ports.PartFilter) ([]entities.Part, error) {
	filter.CarName = strings.TrimSpace(filter.CarName)
	filter.Model = strings.TrimSpace(filter.Model)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.Repo.ListParts(ctx, filter)
}

func (s Service) GetPart(ctx context.Context, partID int64) (entities.Part, error) {
	if partID <= 0 {
		return entities.Part{}, domainerrors.ErrInvalidPartID
	}
	return s.Repo.GetPart(ctx, partID)
}

func (s Service) ListSellerParts(ctx context.Context, actor identityv1.Identity) ([]entities.Part, error) {
	if !services.CanList(actor) {
		return nil, domainerrors.ErrAccessDenied
	}
	return s.Repo.ListPartsBySeller(ctx, actor.ID)
}

func (s Service) CreatePart(ctx context.Context, actor identityv1.Identity, draft services.PartDraft) (entities.Part, error) {
	if !services.CanList(actor) {
		return entities.Part{}, domainerrors.ErrAccessDenied
	}
	now := s.now()
	part, err := services.ValidateDraft(draft, now)
	if err != nil {
		return entities.Part{}, err
	}
	part.SellerID = actor.ID
	part.CreatedAt = now
	part.UpdatedAt = now

	event, err := s.newEvent(ctx, ports.ChangeCreated, now)
	if err != nil {
		return entities.Part{}, err
	}
	created, err := s.Repo.CreatePart(ctx, part, event)
	if err != nil {
		s.logFailure("create", 0, actor.ID, err)
		return entities.Part{}, err
	}
	resolveLogger(s.Logger).Info("part created",
		"event", "part_created",
		"module", "marketplace/parts-service",
		"layer", "application",
		"part_id", created.PartID,
		"seller_id", created.SellerID,
	)
	return created, nil
}

func (s Service) UpdatePart(ctx context.Context, actor identityv1.Identity, partID int64, patch PartPatch) (entities.Part, error) {
	if !services.CanList(actor) {
		return entities.Part{}, domainerrors.ErrAccessDenied
	}
	existing, err := s.GetPart(ctx, partID)
	if err != nil {
		return entities.Part{}, err
	}
	if err := services.EnsureCanManage(actor, existing); err != nil {
		resolveLogger(s.Logger).Warn("part update denied",
			"event", "part_update_denied",
			"module", "marketplace/parts-service",
			"layer", "application",
			"part_id", partID,
			"actor_id", actor.ID,
		)
		return entities.Part{}, err
	}

	now := s.now()
	part, err := services.ValidateDraft(mergePatch(existing, patch), now)
	if err != nil {
		return entities.Part{}, err
	}
	part.PartID = existing.PartID
	part.SellerID = existing.SellerID
	part.CreatedAt = existing.CreatedAt
	part.UpdatedAt = now

	event, err := s.newEvent(ctx, ports.ChangeUpdated, now)
	if err != nil {
		return entities.Part{}, err
	}
	updated, err := s.Repo.UpdatePart(ctx, part, event)
	if err != nil {
		s.logFailure("update", partID, actor.ID, err)
		return entities.Part{}, err
	}
	return updated, nil
}

func (s Service) DeletePart(ctx context.Context, actor identityv1.Identity, partID int64) error {
	if !services.CanList(actor) {
		return domainerrors.ErrAccessDenied
	}
	existing, err := s.GetPart(ctx, partID)
	if err != nil {
		return err
	}
	if err := services.EnsureCanManage(actor, existing); err != nil {
		return err
	}
	event, err := s.newEvent(ctx, ports.ChangeDeleted, s.now())
	if err != nil {
		return err
	}
	if err := s.Repo.DeletePart(ctx, existing, event); err != nil {
		s.logFailure("delete", partID, actor.ID, err)
		return err
	}
	resolveLogger(s.Logger).Info("part deleted",
		"event", "part_deleted",
		"module", "marketplace/parts-service",
		"layer", "application",
		"part_id", partID,
		"actor_id", actor.ID,
	)
	return nil
}

func (s Service) newEvent(ctx context.Context, action string, now time.Time) (ports.PartChangedEvent, error) {
	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.PartChangedEvent{}, err
	}
	return ports.PartChangedEvent{
		EventID:    eventID,
		EventType:  EventTypePartChanged,
		Action:     action,
		OccurredAt: now,
	}, nil
}

func (s Service) logFailure(operation string, partID int64, actorID int64, err error) {
	resolveLogger(s.Logger).Error("part write failed",
		"event", "part_"+operation+"_failed",
		"module", "marketplace/parts-service",
		"layer", "application",
		"part_id", partID,
		"actor_id", actorID,
		"error", err.Error(),
	)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// BuildPartEnvelope renders the outbox envelope for a catalog write. Events
// are partitioned by part so per-part changes stay ordered.
func BuildPartEnvelope(part entities.Part, event ports.PartChangedEvent) (ports.EventEnvelope, error) {
	data, err := json.Marshal(map[string]any{
		"part_id":   part.PartID,
		"seller_id": part.SellerID,
		"action":    event.Action,
		"in_stock":  part.InStock,
		"price":     part.Price.StringFixed(2),
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
		PartitionKeyPath: "part_id",
		PartitionKey:     strconv.FormatInt(part.PartID, 10),
		Data:             data,
	}, nil
}

func mergePatch(part entities.Part, patch PartPatch) services.PartDraft {
	draft := services.PartDraft{
		Name:        part.Name,
		Description: part.Description,
		Price:       &part.Price,
		Category:    part.Category,
		CarName:     part.CarName,
		Model:       part.Model,
		Year:        &part.Year,
		InStock:     &part.InStock,
		ImageURL:    part.ImageURL,
	}
	if patch.Name != nil {
		draft.Name = *patch.Name
	}
	if patch.Description != nil {
		draft.Description = *patch.Description
	}
	if patch.Price != nil {
		draft.Price = patch.Price
	}
	if patch.Category != nil {
		draft.Category = *patch.Category
	}
	if patch.CarName != nil {
		draft.CarName = *patch.CarName
	}
	if patch.Model != nil {
		draft.Model = *patch.Model
	}
	if patch.Year != nil {
		draft.Year = patch.Year
	}
	if patch.InStock != nil {
		draft.InStock = patch.InStock
	}
	if patch.ImageURL != nil {
		draft.ImageURL = *patch.ImageURL
	}
	return draft
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
