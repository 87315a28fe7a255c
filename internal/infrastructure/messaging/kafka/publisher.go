package kafka

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

// MessagePublisher is satisfied by *Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// SearchEventPublisher publishes prior-art search events keyed by session so
// that events for one session stay ordered within a partition.
type SearchEventPublisher struct {
	producer MessagePublisher
	topic    string
	source   string
}

func NewSearchEventPublisher(producer MessagePublisher, topic, source string) *SearchEventPublisher {
	if topic == "" {
		topic = TopicSearchCompleted
	}
	return &SearchEventPublisher{producer: producer, topic: topic, source: source}
}

func (p *SearchEventPublisher) PublishSearchCompleted(ctx context.Context, evt *priorart.SearchCompletedEvent) error {
	env, err := NewEventEnvelope(evt.EventID(), evt.EventType(), p.source, evt.OccurredAt(), evt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal search event")
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		env.TraceID = sc.TraceID().String()
	}

	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal event envelope")
	}

	return p.producer.Publish(ctx, &ProducerMessage{
		Topic: p.topic,
		Key:   []byte(evt.SessionID),
		Value: value,
		Headers: map[string]string{
			"event_type":     env.EventType,
			"schema_version": env.SchemaVersion,
		},
		Timestamp: env.Timestamp,
	})
}
