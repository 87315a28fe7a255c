package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	dto "github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is reported to the client in X-RateLimit-* headers.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate.
	RequestsPerSecond float64
	// BurstSize is the number of requests a client may send at once.
	BurstSize int
	// KeyFunc extracts the client key. Defaults to the client IP.
	KeyFunc func(r *http.Request) string
	// IdleTTL is how long an unused client limiter is kept.
	IdleTTL time.Duration
	// CleanupInterval is how often idle limiters are evicted.
	CleanupInterval time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 2,
		BurstSize:         10,
		KeyFunc:           ClientIP,
		IdleTTL:           10 * time.Minute,
		CleanupInterval:   time.Minute,
	}
}

// ClientIP returns the host part of RemoteAddr. Run it after chi's RealIP
// middleware so proxies are accounted for.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client key.
type ClientLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*clientEntry

	stopOnce sync.Once
	stop     chan struct{}
}

// NewClientLimiter starts the cleanup loop when cfg.CleanupInterval > 0.
// Call Stop to end it.
func NewClientLimiter(cfg RateLimitConfig) *ClientLimiter {
	def := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = def.BurstSize
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}

	l := &ClientLimiter{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.BurstSize,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
		clients: make(map[string]*clientEntry),
		stop:    make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go l.cleanupLoop(cfg.CleanupInterval)
	}
	return l
}

func (l *ClientLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	e, ok := l.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	info := RateLimitInfo{Limit: l.burst}
	res := e.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		info.RetryAfter = delay
		return false, info
	}
	info.Remaining = int(math.Max(0, math.Floor(e.limiter.TokensAt(now))))
	return true, info
}

func (l *ClientLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

func (l *ClientLimiter) cleanup() {
	cutoff := l.now().Add(-l.idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.clients {
		if e.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

func (l *ClientLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// ClientCount returns the number of tracked clients.
func (l *ClientLimiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit rejects requests over the limit with 429 and a Retry-After header.
func RateLimit(limiter RateLimiter, keyFunc func(r *http.Request) string) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := limiter.Allow(keyFunc(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

			if !allowed {
				seconds := int(math.Ceil(info.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"` + dto.ErrTooManyRequests + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
