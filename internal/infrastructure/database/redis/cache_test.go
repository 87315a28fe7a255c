package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

func TestEmbeddingCache_SetGet(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewEmbeddingCache(client, time.Hour, logging.NewNopLogger())
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "abc", []float32{0.25, -1, 3.5}))

	vec, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.25, -1, 3.5}, vec)

	ttl := mr.TTL("test:embedding:abc")
	assert.True(t, ttl >= 54*time.Minute && ttl <= 66*time.Minute, "ttl %s", ttl)
}

func TestEmbeddingCache_CorruptEntryIsMiss(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewEmbeddingCache(client, time.Hour, logging.NewNopLogger())
	require.NoError(t, mr.Set("test:embedding:bad", "not json"))

	_, ok, err := cache.Get(context.Background(), "bad")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEmbeddingCache_Unavailable(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewEmbeddingCache(client, time.Hour, logging.NewNopLogger())
	mr.Close()

	_, _, err := cache.Get(context.Background(), "abc")
	assert.Error(t, err)
}

func TestJitterTTL(t *testing.T) {
	assert.Zero(t, jitterTTL(0))
	for i := 0; i < 50; i++ {
		got := jitterTTL(100 * time.Second)
		assert.True(t, got >= 90*time.Second && got <= 110*time.Second)
	}
}
