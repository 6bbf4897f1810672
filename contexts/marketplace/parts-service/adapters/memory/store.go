package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"carparts/contexts/marketplace/parts-service/application"
	"carparts/contexts/marketplace/parts-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/parts-service/domain/errors"
	"carparts/contexts/marketplace/parts-service/ports"
)

type Store struct {
	mu          sync.RWMutex
	parts       map[int64]entities.Part
	nextID      int64
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		parts:      make(map[int64]entities.Part),
		outbox:     make(map[string]ports.OutboxMessage),
		outboxSent: make(map[string]time.Time),
	}
}

// SeedPart inserts a part without an outbox event. A zero PartID is assigned.
func (s *Store) SeedPart(part entities.Part) entities.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	if part.PartID == 0 {
		s.nextID++
		part.PartID = s.nextID
	} else if part.PartID > s.nextID {
		s.nextID = part.PartID
	}
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now().UTC()
	}
	s.parts[part.PartID] = part
	return part
}

func (s *Store) ListParts(_ context.Context, filter ports.PartFilter) ([]entities.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Part, 0, len(s.parts))
	for _, part := range s.parts {
		if !containsFold(part.CarName, filter.CarName) ||
			!containsFold(part.Model, filter.Model) ||
			!containsFold(part.Category, filter.Category) {
			continue
		}
		if filter.Year != 0 && part.Year != filter.Year {
			continue
		}
		items = append(items, part)
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) ListPartsBySeller(_ context.Context, sellerID int64) ([]entities.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Part, 0)
	for _, part := range s.parts {
		if part.SellerID == sellerID {
			items = append(items, part)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) GetPart(_ context.Context, partID int64) (entities.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	part, ok := s.parts[partID]
	if !ok {
		return entities.Part{}, domainerrors.ErrPartNotFound
	}
	return part, nil
}

// FindPartsByIDs returns the stored parts among ids, in any stock state.
func (s *Store) FindPartsByIDs(_ context.Context, partIDs []int64) ([]entities.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Part, 0, len(partIDs))
	for _, id := range partIDs {
		if part, ok := s.parts[id]; ok {
			items = append(items, part)
		}
	}
	return items, nil
}

func (s *Store) CreatePart(_ context.Context, part entities.Part, event ports.PartChangedEvent) (entities.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	part.PartID = s.nextID
	if err := s.appendOutbox(part, event); err != nil {
		s.nextID--
		return entities.Part{}, err
	}
	s.parts[part.PartID] = part
	return part, nil
}

func (s *Store) UpdatePart(_ context.Context, part entities.Part, event ports.PartChangedEvent) (entities.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[part.PartID]; !ok {
		return entities.Part{}, domainerrors.ErrPartNotFound
	}
	if err := s.appendOutbox(part, event); err != nil {
		return entities.Part{}, err
	}
	s.parts[part.PartID] = part
	return part, nil
}

func (s *Store) DeletePart(_ context.Context, part entities.Part, event ports.PartChangedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[part.PartID]; !ok {
		return domainerrors.ErrPartNotFound
	}
	if err := s.appendOutbox(part, event); err != nil {
		return err
	}
	delete(s.parts, part.PartID)
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
		return domainerrors.ErrRepository
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

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutbox(part entities.Part, event ports.PartChangedEvent) error {
	envelope, err := application.BuildPartEnvelope(part, event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, exists := s.outbox[event.EventID]; exists {
		return domainerrors.ErrRepository
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

func containsFold(value string, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

func sortNewestFirst(items []entities.Part) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].PartID > items[j].PartID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
