package kafka

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentBot-AI/pkg/errors"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	written   []kafka.Message
	closed    int
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed++
	return nil
}

func newTestProducer(w WriterInterface) *Producer {
	return newProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}}, logging.NewNopLogger())
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b"}, MaxRetries: -1}))
}

func TestNewProducer_FromConfig(t *testing.T) {
	p, err := NewProducer(ProducerConfigFrom(config.KafkaConfig{
		Brokers:  []string{"localhost:9092"},
		ClientID: "patentbot",
	}), logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublish_Success(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &ProducerMessage{
		Topic:   "t",
		Key:     []byte("k"),
		Value:   []byte("v"),
		Headers: map[string]string{"h": "1"},
	})
	require.NoError(t, err)

	require.Len(t, w.written, 1)
	msg := w.written[0]
	assert.Equal(t, "t", msg.Topic)
	assert.Equal(t, []byte("k"), msg.Key)
	assert.Equal(t, []kafka.Header{{Key: "h", Value: []byte("1")}}, msg.Headers)
	assert.False(t, msg.Time.IsZero())
	assert.EqualValues(t, 1, p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.True(t, apperrors.IsCode(p.Publish(ctx, &ProducerMessage{Value: []byte("v")}), apperrors.ErrCodeValidation))
	assert.True(t, apperrors.IsCode(p.Publish(ctx, &ProducerMessage{Topic: "t"}), apperrors.ErrCodeValidation))
	big := []byte(strings.Repeat("x", 2*1024*1024))
	assert.True(t, apperrors.IsCode(p.Publish(ctx, &ProducerMessage{Topic: "t", Value: big}), apperrors.ErrCodeValidation))
}

func TestPublish_WriteError(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error { return errors.New("broker down") }}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessagingError))
	assert.EqualValues(t, 0, p.Sent())
}

func TestProducer_Close(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)

	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}
