package priorart

import "context"

// SessionRepository reads the drafting session a search is run for.
type SessionRepository interface {
	// GetSession returns an ErrCodeSessionNotFound error for unknown ids.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListQuestions returns the session's interview questions in ordinal order.
	ListQuestions(ctx context.Context, sessionID string) ([]QAPair, error)
}

// ResultRepository stores the ranked result set of each session.
type ResultRepository interface {
	// ReplaceForSession atomically swaps the session's stored results for
	// results. An empty slice clears the session.
	ReplaceForSession(ctx context.Context, sessionID string, results []*Result) error

	// ListBySession returns stored results ordered by rank.
	ListBySession(ctx context.Context, sessionID string) ([]*Result, error)
}
