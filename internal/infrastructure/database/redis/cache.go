package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

var ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")

// EmbeddingCache stores embedding vectors under caller-supplied digests.
type EmbeddingCache struct {
	client *Client
	logger logging.Logger
	ttl    time.Duration
}

func NewEmbeddingCache(client *Client, ttl time.Duration, log logging.Logger) *EmbeddingCache {
	return &EmbeddingCache{client: client, logger: log, ttl: ttl}
}

func (c *EmbeddingCache) key(digest string) string {
	return c.client.Key("embedding", digest)
}

// Get returns the cached vector for digest; ok is false on a miss.
func (c *EmbeddingCache) Get(ctx context.Context, digest string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, c.key(digest)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeCacheError, "embedding cache get")
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		c.logger.Warn("Discarding corrupt cached embedding", logging.String("key", c.key(digest)), logging.Err(err))
		return nil, false, nil
	}
	return vec, true, nil
}

// Set stores vec with the configured TTL, jittered by ±10% so entries
// written in one search do not all expire together.
func (c *EmbeddingCache) Set(ctx context.Context, digest string, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if err := c.client.Set(ctx, c.key(digest), data, jitterTTL(c.ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "embedding cache set")
	}
	return nil
}

func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}
