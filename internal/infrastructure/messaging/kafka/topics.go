package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TopicSearchCompleted is the default topic for finished prior-art searches.
const TopicSearchCompleted = "patentbot.prior_art.search_completed"

const envelopeSchemaVersion = "1"

// EventEnvelope wraps every event payload published by the service.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope marshals payload into an envelope. An empty eventID gets a
// fresh UUID.
func NewEventEnvelope(eventID, eventType, source string, ts time.Time, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}
	return &EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		Source:        source,
		Timestamp:     ts.UTC(),
		SchemaVersion: envelopeSchemaVersion,
		Payload:       raw,
	}, nil
}
