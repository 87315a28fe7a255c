// Package retrieval finds candidate prior-art patents through an LLM-backed
// web search provider.
package retrieval

import (
	"context"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
)

// Retrieval is the outcome of one provider call.
type Retrieval struct {
	Candidates []priorart.Candidate
	// Raw is the provider's answer text before decoding.
	Raw string
	// Source labels where the candidates came from.
	Source string
}

// Retriever returns candidate patents for a search context.
type Retriever interface {
	Retrieve(ctx context.Context, searchContext string) (*Retrieval, error)
}
