package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/event"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/events"
	pkgkafka "github.com/the-lost-phoenix/credit-risk-engine/pkg/kafka"
)

// DefaultPublishTimeout bounds a publish made on the request path.
const DefaultPublishTimeout = 3 * time.Second

// messagePublisher is satisfied by *pkgkafka.Producer.
type messagePublisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// DecisionEventPublisher implements port.EventPublisher on a Kafka topic.
// Messages are keyed by application id so every event for one application
// lands on the same partition.
type DecisionEventPublisher struct {
	producer messagePublisher
	topic    string
	timeout  time.Duration
	logger   *slog.Logger
}

// PublisherOption customises a DecisionEventPublisher.
type PublisherOption func(*DecisionEventPublisher)

// WithPublishTimeout overrides DefaultPublishTimeout. Zero disables the bound.
func WithPublishTimeout(d time.Duration) PublisherOption {
	return func(p *DecisionEventPublisher) { p.timeout = d }
}

// NewDecisionEventPublisher creates a publisher for topic.
func NewDecisionEventPublisher(producer messagePublisher, topic string, logger *slog.Logger, opts ...PublisherOption) *DecisionEventPublisher {
	p := &DecisionEventPublisher{
		producer: producer,
		topic:    topic,
		timeout:  DefaultPublishTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends evts as one batch. The caller's context still applies; the
// publish timeout only shortens it.
func (p *DecisionEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := events.Marshal(evt)
		if err != nil {
			return err
		}
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":   evt.EventType(),
				"event_id":     evt.EventID(),
				"occurred_at":  evt.OccurredAt().UTC().Format(time.RFC3339Nano),
				"content-type": "application/json",
			},
		})
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish %d event(s) to %s: %w", len(messages), p.topic, err)
	}
	p.logger.DebugContext(ctx, "decision events published",
		"topic", p.topic,
		"count", len(messages),
		"application_id", evts[0].AggregateID(),
		"duration", time.Since(start),
	)
	return nil
}

// NoopPublisher discards events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }
