package embedding

import (
	"context"
	"fmt"
	"io"

	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/intelligence/provider"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

// New builds the configured embedder wrapped in a guard and, when cache is
// non-nil, a cache. It returns a nil Embedder when no API key is set; the
// caller then scores keyword-only. The returned closer is never nil.
func New(ctx context.Context, cfg config.SearchConfig, cache VectorCache, logger logging.Logger) (Embedder, io.Closer, error) {
	if cfg.EmbeddingAPIKey == "" {
		return nil, nopCloser{}, nil
	}

	var (
		base   Embedder
		closer io.Closer = nopCloser{}
	)
	switch cfg.EmbeddingProvider {
	case config.EmbeddingProviderGemini:
		g, err := NewGeminiEmbedder(ctx, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		base, closer = g, g
	case config.EmbeddingProviderOpenAI, "":
		base = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:     cfg.EmbeddingAPIKey,
			BaseURL:    cfg.EmbeddingBaseURL,
			Model:      cfg.EmbeddingModel,
			Timeout:    cfg.RequestTimeout,
			MaxRetries: cfg.MaxRetries,
		})
	default:
		return nil, nil, fmt.Errorf("embedding: unsupported provider %q", cfg.EmbeddingProvider)
	}

	guard := provider.NewGuard(provider.GuardConfig{
		Name:          "embedding-" + base.Model(),
		RatePerSecond: cfg.RateLimitPerSecond,
		Burst:         cfg.RateLimitBurst,
		MaxFailures:   cfg.BreakerMaxFailures,
		OpenTimeout:   cfg.BreakerOpenTimeout,
	}, logger)

	var e Embedder = NewGuardedEmbedder(base, guard)
	if cache != nil {
		e = NewCachedEmbedder(e, cache, logger)
	}
	return e, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
