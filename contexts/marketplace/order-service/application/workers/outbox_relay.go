package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/ports"
)

// OutboxRelay publishes pending outbox rows to "<TopicPrefix><event_type>"
// and marks each row sent only after the broker accepted it.
type OutboxRelay struct {
	Outbox      ports.OutboxRepository
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	TopicPrefix string
	BatchSize   int
	Logger      *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "order_outbox_list_failed",
			"module", "marketplace/order-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "order_outbox_decode_failed",
				"module", "marketplace/order-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		topic := r.TopicPrefix + envelope.EventType
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "order_outbox_publish_failed",
				"module", "marketplace/order-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"topic", topic,
				"error", err.Error(),
			)
			return err
		}

		sentAt := time.Now().UTC()
		if r.Clock != nil {
			sentAt = r.Clock.Now().UTC()
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, sentAt); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "order_outbox_mark_sent_failed",
				"module", "marketplace/order-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "order_outbox_relay_completed",
			"module", "marketplace/order-service",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}
