package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

var (
	ErrLockNotHeld   = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
	ErrSearchRunning = errors.New(errors.ErrCodeSearchInProgress, "a prior-art search is already running for this session")
)

var mutexUnlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// Mutex is a single-owner lock: SET NX with a random value, released by a
// script that deletes the key only while it still holds that value.
type Mutex struct {
	client *Client
	key    string
	value  string
	ttl    time.Duration
}

func (c *Client) NewMutex(key string, ttl time.Duration) *Mutex {
	return &Mutex{client: c, key: key, value: uuid.NewString(), ttl: ttl}
}

// TryLock makes one acquisition attempt.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	if m.client.isClosed() {
		return false, ErrClientClosed
	}
	ok, err := m.client.rdb.SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
	}
	return ok, nil
}

func (m *Mutex) Unlock(ctx context.Context) error {
	res, err := mutexUnlockScript.Run(ctx, m.client.rdb, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if res == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// SearchLocker serialises searches per session across server replicas.
type SearchLocker struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

func NewSearchLocker(client *Client, ttl time.Duration, log logging.Logger) *SearchLocker {
	return &SearchLocker{client: client, ttl: ttl, logger: log}
}

// Acquire takes the session's search lock or fails with
// ErrCodeSearchInProgress. The returned func releases it.
func (l *SearchLocker) Acquire(ctx context.Context, sessionID string) (func(context.Context) error, error) {
	m := l.client.NewMutex(l.client.Key("lock", "search", sessionID), l.ttl)
	ok, err := m.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSearchRunning.WithDetail(sessionID)
	}
	l.logger.Debug("Search lock acquired", logging.SessionID(sessionID))
	return m.Unlock, nil
}
