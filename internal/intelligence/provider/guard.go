package provider

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentBot-AI/pkg/errors"
)

// GuardConfig tunes the rate limiter and circuit breaker around a provider.
type GuardConfig struct {
	Name          string
	RatePerSecond float64
	Burst         int
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

// Guard throttles and circuit-breaks calls to one upstream provider.
type Guard struct {
	name    string
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewGuard builds a guard. Non-positive rates disable throttling.
func NewGuard(cfg GuardConfig, logger logging.Logger) *Guard {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// The caller giving up is not the provider's fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit breaker state changed",
				logging.String("provider", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()))
		},
	})

	return &Guard{name: cfg.Name, breaker: breaker, limiter: limiter}
}

// Do waits for a rate-limit token and runs fn through the breaker.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeProviderRateLimited, g.name+" rate limit wait aborted")
	}
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Wrap(err, apperrors.ErrCodeProviderUnavailable, g.name+" circuit open")
	}
	return err
}

// State exposes the breaker state for health reporting.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}
