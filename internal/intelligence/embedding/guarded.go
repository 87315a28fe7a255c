package embedding

import (
	"context"

	"github.com/turtacn/PatentBot-AI/internal/intelligence/provider"
)

// GuardedEmbedder throttles and circuit-breaks an Embedder.
type GuardedEmbedder struct {
	next  Embedder
	guard *provider.Guard
}

func NewGuardedEmbedder(next Embedder, guard *provider.Guard) *GuardedEmbedder {
	return &GuardedEmbedder{next: next, guard: guard}
}

func (g *GuardedEmbedder) Model() string { return g.next.Model() }

func (g *GuardedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := g.guard.Do(ctx, func(ctx context.Context) error {
		var err error
		vec, err = g.next.Embed(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}
