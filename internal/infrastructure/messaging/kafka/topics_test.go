package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventEnvelope(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	env, err := NewEventEnvelope("", "thing.happened", "test", ts, map[string]int{"n": 1})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "thing.happened", env.EventType)
	assert.Equal(t, time.UTC, env.Timestamp.Location())
	assert.Equal(t, "1", env.SchemaVersion)
	assert.JSONEq(t, `{"n":1}`, string(env.Payload))

	env, err = NewEventEnvelope("fixed", "x", "test", ts, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", env.EventID)
	assert.Equal(t, json.RawMessage("null"), env.Payload)
}

func TestNewEventEnvelope_Unmarshalable(t *testing.T) {
	_, err := NewEventEnvelope("", "x", "test", time.Now(), make(chan int))
	assert.Error(t, err)
}
