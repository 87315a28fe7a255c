package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

func TestSearchEventPublisher_PublishSearchCompleted(t *testing.T) {
	w := &mockKafkaWriter{}
	pub := NewSearchEventPublisher(newTestProducer(w), "", "patentbot-api")

	outcome := &priorart.SearchOutcome{
		SessionID:       "sess-1",
		ResultsFound:    2,
		TopScore:        0.8,
		SemanticEnabled: true,
		Duration:        1500 * time.Millisecond,
	}
	ranked := []*priorart.Result{{ExternalID: "US1"}, {ExternalID: "US2"}}
	evt := priorart.NewSearchCompletedEvent(outcome, ranked)

	require.NoError(t, pub.PublishSearchCompleted(context.Background(), evt))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, TopicSearchCompleted, msg.Topic)
	assert.Equal(t, []byte("sess-1"), msg.Key)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, evt.EventID(), env.EventID)
	assert.Equal(t, priorart.EventTypeSearchCompleted, env.EventType)
	assert.Equal(t, "patentbot-api", env.Source)

	var payload priorart.SearchCompletedEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 2, payload.ResultsFound)
	assert.Equal(t, int64(1500), payload.DurationMs)
	assert.Equal(t, []string{"US1", "US2"}, payload.TopExternalIDs)
}

func TestSearchEventPublisher_ProducerClosed(t *testing.T) {
	p := newProducerWithWriter(&mockKafkaWriter{}, ProducerConfig{Brokers: []string{"b"}}, logging.NewNopLogger())
	require.NoError(t, p.Close())

	pub := NewSearchEventPublisher(p, "custom.topic", "cli")
	err := pub.PublishSearchCompleted(context.Background(), priorart.NewSearchCompletedEvent(&priorart.SearchOutcome{SessionID: "s"}, nil))
	assert.ErrorIs(t, err, ErrProducerClosed)
}
