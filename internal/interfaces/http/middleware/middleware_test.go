package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("{}"))
	})
}

func observedLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.NewLoggerFromCore(core), logs
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(CORSConfig{})(okHandler(http.StatusOK))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/prior-art/search", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-client-info, apikey")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_RestrictedOrigin(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://allowed.example"}})(okHandler(http.StatusOK))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		logger, logs := observedLogger()
		h := chimw.RequestID(RequestLogging(logger, DefaultLoggingConfig())(okHandler(tt.status)))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/prior-art/search", nil))

		require.Equal(t, 1, logs.Len(), "status %d", tt.status)
		entry := logs.All()[0]
		assert.Equal(t, tt.level, entry.Level)
		fields := entry.ContextMap()
		assert.EqualValues(t, tt.status, fields["status"])
		assert.NotEmpty(t, fields["request_id"])
	}
}

func TestRequestLogging_SlowRequestWarns(t *testing.T) {
	logger, logs := observedLogger()
	cfg := LoggingConfig{SlowThreshold: time.Nanosecond}
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
	})

	RequestLogging(logger, cfg)(slow).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.EqualValues(t, http.StatusOK, logs.All()[0].ContextMap()["status"])
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger, logs := observedLogger()
	h := RequestLogging(logger, DefaultLoggingConfig())(okHandler(http.StatusOK))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, 0, logs.Len())
}

func TestRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/api/v1/prior-art/sessions/{sessionID}/results", func(w http.ResponseWriter, req *http.Request) {
		got = routePattern(req)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/prior-art/sessions/abc/results", nil))

	assert.Equal(t, "/api/v1/prior-art/sessions/{sessionID}/results", got)
	assert.Equal(t, "unmatched", routePattern(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestClientLimiter_BurstThenReject(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer l.Stop()

	ok, info := l.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, info = l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok, "clients are limited independently")
	assert.Equal(t, 2, l.ClientCount())
}

func TestClientLimiter_CleanupEvictsIdleClients(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	defer l.Stop()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	l.Allow("a")
	l.now = func() time.Time { return base.Add(2 * time.Minute) }
	l.Allow("b")
	l.cleanup()

	assert.Equal(t, 1, l.ClientCount())
}

func TestRateLimit_Returns429(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	defer l.Stop()
	h := RateLimit(l, nil)(okHandler(http.StatusOK))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/prior-art/search", nil)
	req.RemoteAddr = "192.0.2.7:5555"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, second.Body.String())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:41234"
	assert.Equal(t, "203.0.113.9", ClientIP(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
