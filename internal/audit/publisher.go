package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"eramap/internal/platform/kafka"
)

// Sink receives audit events. Implementations must be safe for concurrent
// use and must not block resolution paths.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps and forwards events to a sink. Emission is best effort:
// a failing sink is logged and otherwise ignored.
type Publisher struct {
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{sink: sink, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.sink.Append(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "audit append failed",
			"action", string(event.Action),
			"error", err.Error(),
		)
	}
}

// MemorySink keeps events in memory; used in tests and when Kafka is not
// configured.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event{}, s.events...)
}

// KafkaSink publishes events through the shared producer, keyed by action so
// consumers can partition by event type.
type KafkaSink struct {
	producer *kafka.Producer
}

func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.producer.Publish(ctx, string(event.Action), payload)
	return nil
}
