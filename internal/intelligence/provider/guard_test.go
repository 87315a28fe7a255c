package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentBot-AI/pkg/errors"
)

func TestGuard_OpensAfterConsecutiveFailures(t *testing.T) {
	g := NewGuard(GuardConfig{Name: "test", MaxFailures: 2, OpenTimeout: time.Minute}, logging.NewNopLogger())
	boom := errors.New("boom")

	calls := 0
	fail := func(context.Context) error { calls++; return boom }

	assert.ErrorIs(t, g.Do(context.Background(), fail), boom)
	assert.ErrorIs(t, g.Do(context.Background(), fail), boom)
	assert.Equal(t, gobreaker.StateOpen, g.State())

	err := g.Do(context.Background(), fail)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeProviderUnavailable))
	assert.Equal(t, 2, calls)
}

func TestGuard_CancellationDoesNotTrip(t *testing.T) {
	g := NewGuard(GuardConfig{Name: "test", MaxFailures: 1, OpenTimeout: time.Minute}, nil)

	err := g.Do(context.Background(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestGuard_RateLimitWaitHonoursContext(t *testing.T) {
	g := NewGuard(GuardConfig{Name: "test", RatePerSecond: 0.001, Burst: 1}, nil)
	ok := func(context.Context) error { return nil }

	assert.NoError(t, g.Do(context.Background(), ok))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := g.Do(ctx, ok)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeProviderRateLimited))
}
