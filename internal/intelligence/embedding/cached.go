package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

// VectorCache stores vectors by digest. Implemented by the Redis embedding
// cache.
type VectorCache interface {
	Get(ctx context.Context, digest string) ([]float32, bool, error)
	Set(ctx context.Context, digest string, vec []float32) error
}

// CachedEmbedder serves repeated texts from a cache and collapses concurrent
// requests for the same text into one provider call. Cache failures only
// cost a provider call.
type CachedEmbedder struct {
	next   Embedder
	cache  VectorCache
	logger logging.Logger
	group  singleflight.Group
}

func NewCachedEmbedder(next Embedder, cache VectorCache, logger logging.Logger) *CachedEmbedder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedEmbedder{next: next, cache: cache, logger: logger}
}

func (c *CachedEmbedder) Model() string { return c.next.Model() }

// Digest is the cache key for text embedded with model.
func Digest(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	digest := Digest(c.next.Model(), text)

	if vec, ok, err := c.cache.Get(ctx, digest); err != nil {
		c.logger.Warn("embedding cache read failed", logging.Err(err))
	} else if ok {
		return vec, nil
	}

	v, err, _ := c.group.Do(digest, func() (interface{}, error) {
		vec, err := c.next.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, digest, vec); err != nil {
			c.logger.Warn("embedding cache write failed", logging.Err(err))
		}
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}
