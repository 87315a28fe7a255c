package priorart

import (
	"context"
	"time"

	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
)

// ---------------------------------------------------------------------------
// Port interfaces
// ---------------------------------------------------------------------------

// EventPublisher announces completed searches.
type EventPublisher interface {
	PublishSearchCompleted(ctx context.Context, evt *domain.SearchCompletedEvent) error
}

// ResponseArchiver stores raw retrieval responses and returns the object key.
type ResponseArchiver interface {
	Archive(ctx context.Context, sessionID, source, raw string) (string, error)
}

// SearchLocker serialises searches on one session. The returned func
// releases the lock.
type SearchLocker interface {
	Acquire(ctx context.Context, sessionID string) (func(context.Context) error, error)
}

// Metrics records search telemetry.
type Metrics interface {
	ObserveSearch(outcome string, semantic bool, candidates, stored int, topScore float64, d time.Duration)
	ObserveRetrieval(status string, d time.Duration)
	IncEmbeddingFailure(stage string)
	IncEventPublished(eventType string, err error)
	IncArchiveWrite(err error)
}

// ---------------------------------------------------------------------------
// No-op adapters for optional ports
// ---------------------------------------------------------------------------

type noopPublisher struct{}

func (noopPublisher) PublishSearchCompleted(context.Context, *domain.SearchCompletedEvent) error {
	return nil
}

type noopArchiver struct{}

func (noopArchiver) Archive(context.Context, string, string, string) (string, error) { return "", nil }

// NoopLocker never blocks; used when no shared lock store is configured.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveSearch(string, bool, int, int, float64, time.Duration) {}
func (noopMetrics) ObserveRetrieval(string, time.Duration)                       {}
func (noopMetrics) IncEmbeddingFailure(string)                                   {}
func (noopMetrics) IncEventPublished(string, error)                              {}
func (noopMetrics) IncArchiveWrite(error)                                        {}
