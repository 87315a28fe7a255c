// Package embedding turns text into dense vectors for semantic scoring.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyEmbedding is returned when a provider answers without a vector.
var ErrEmptyEmbedding = errors.New("embedding: provider returned no vector")

// Embedder returns the embedding of one text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Model names the model, used to key caches.
	Model() string
}
