package ports

import (
	"context"
	"time"

	"carparts/contexts/marketplace/parts-service/domain/entities"
	contractsv1 "carparts/contracts/gen/events/v1"
)

const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// PartFilter matches text fields case-insensitively by substring.
type PartFilter struct {
	CarName  string
	Model    string
	Category string
	Year     int
}

// PartChangedEvent is persisted to the outbox with every catalog write.
type PartChangedEvent struct {
	EventID    string
	EventType  string
	Action     string
	OccurredAt time.Time
}

type Repository interface {
	ListParts(ctx context.Context, filter PartFilter) ([]entities.Part, error)
	ListPartsBySeller(ctx context.Context, sellerID int64) ([]entities.Part, error)
	GetPart(ctx context.Context, partID int64) (entities.Part, error)
	CreatePart(ctx context.Context, part entities.Part, event PartChangedEvent) (entities.Part, error)
	UpdatePart(ctx context.Context, part entities.Part, event PartChangedEvent) (entities.Part, error)
	DeletePart(ctx context.Context, part entities.Part, event PartChangedEvent) error
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
