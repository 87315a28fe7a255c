package priorart

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeSearchCompleted is published after a search's results are stored.
const EventTypeSearchCompleted = "prior_art.search.completed"

// BaseEvent carries the fields shared by domain events.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Timestamp time.Time `json:"occurred_at"`
	AggID     string    `json:"aggregate_id"`
}

func newBaseEvent(eventType, aggID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggID }

// SearchCompletedEvent announces a durable result set for a session.
type SearchCompletedEvent struct {
	BaseEvent
	SessionID       string   `json:"session_id"`
	ResultsFound    int      `json:"results_found"`
	TopScore        float64  `json:"top_score"`
	SemanticEnabled bool     `json:"semantic_enabled"`
	DurationMs      int64    `json:"duration_ms"`
	TopExternalIDs  []string `json:"top_external_ids,omitempty"`
}

// NewSearchCompletedEvent summarises outcome and the top three ranked results.
func NewSearchCompletedEvent(outcome *SearchOutcome, ranked []*Result) *SearchCompletedEvent {
	evt := &SearchCompletedEvent{
		BaseEvent:       newBaseEvent(EventTypeSearchCompleted, outcome.SessionID),
		SessionID:       outcome.SessionID,
		ResultsFound:    outcome.ResultsFound,
		TopScore:        outcome.TopScore,
		SemanticEnabled: outcome.SemanticEnabled,
		DurationMs:      outcome.Duration.Milliseconds(),
	}
	for i, r := range ranked {
		if i == 3 {
			break
		}
		if r.ExternalID != "" {
			evt.TopExternalIDs = append(evt.TopExternalIDs, r.ExternalID)
		}
	}
	return evt
}
