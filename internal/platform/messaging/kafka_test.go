package messaging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	contractsv1 "carparts/contracts/gen/events/v1"
)

func TestNewKafkaRequiresBrokers(t *testing.T) {
	if _, err := NewKafka(nil, nil); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestKafkaReusesWriterPerTopic(t *testing.T) {
	k, err := NewKafka([]string{"localhost:9092"}, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}
	first := k.writer("carparts.order.placed")
	second := k.writer("carparts.order.placed")
	other := k.writer("carparts.parts.changed")
	if first != second {
		t.Fatalf("expected writer reuse for the same topic")
	}
	if first == other {
		t.Fatalf("expected distinct writers per topic")
	}
	if err := k.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if len(k.writers) != 0 {
		t.Fatalf("expected writers released on close, got %d", len(k.writers))
	}
}

func TestLogPublisherLogsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := LogPublisher{Logger: logger}.Publish(context.Background(), "carparts.order.placed", contractsv1.Envelope{
		EventID:      "evt-1",
		EventType:    "order.placed",
		PartitionKey: "42",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"event":"log_publish"`, `"event_id":"evt-1"`, `"partition_key":"42"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %s, got %s", want, out)
		}
	}
}
