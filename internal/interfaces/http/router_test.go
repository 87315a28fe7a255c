package http

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/config"
	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/middleware"
)

// stubService answers every search with a fixed outcome.
type stubService struct {
	searched []string
}

func (s *stubService) Search(_ context.Context, req *domain.SearchRequest) (*domain.SearchOutcome, error) {
	s.searched = append(s.searched, req.SessionID)
	return &domain.SearchOutcome{SessionID: req.SessionID, ResultsFound: 2, Message: domain.OutcomeMessage(2)}, nil
}

func (s *stubService) ListResults(_ context.Context, _ string) ([]*domain.Result, error) {
	return []*domain.Result{}, nil
}

func newTestRouter(t *testing.T, limiter middleware.RateLimiter) (http.Handler, *stubService) {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "patentbot"}, logging.NewNopLogger())
	require.NoError(t, err)

	svc := &stubService{}
	h := NewRouter(RouterConfig{
		PriorArtHandler:  handlers.NewPriorArtHandler(svc, nil),
		HealthHandler:    handlers.NewHealthHandler("test"),
		RequestTimeout:   5 * time.Second,
		SearchLimiter:    limiter,
		Logger:           logging.NewNopLogger(),
		Metrics:          prometheus.NewAppMetrics(collector),
		MetricsCollector: collector,
	})
	return h, svc
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "198.51.100.4:1234"
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRouter_SearchRoutes(t *testing.T) {
	h, svc := newTestRouter(t, nil)

	for _, path := range []string{SearchPath, LegacySearchPath} {
		w := serve(h, http.MethodPost, path, `{"session_id":"s-1"}`)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"success":true,"results_found":2,"message":"`+domain.OutcomeMessage(2)+`"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"), "CORS applies to %s", path)
	}
	assert.Equal(t, []string{"s-1", "s-1"}, svc.searched)
}

func TestNewRouter_ResultsRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	w := serve(h, http.MethodGet, "/api/v1/prior-art/sessions/s-1/results", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session_id":"s-1","count":0,"results":[]}`, w.Body.String())
}

func TestNewRouter_HealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/readyz", "").Code)

	serve(h, http.MethodPost, SearchPath, `{"session_id":"s-1"}`)
	w := serve(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "patentbot_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/api/v1/prior-art/search"`)
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/v1/patents", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, SearchPath, "").Code)
}

func TestNewRouter_SearchIsRateLimited(t *testing.T) {
	limiter := middleware.NewClientLimiter(middleware.RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	defer limiter.Stop()
	h, svc := newTestRouter(t, limiter)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, SearchPath, `{"session_id":"s-1"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, SearchPath, `{"session_id":"s-1"}`).Code)
	assert.Len(t, svc.searched, 1)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/prior-art/sessions/s-1/results", "").Code,
		"results listing is not throttled")
}

func TestNewRouter_NilPriorArtHandler(t *testing.T) {
	h := NewRouter(RouterConfig{HealthHandler: handlers.NewHealthHandler("test")})

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPost, SearchPath, `{"session_id":"s-1"}`).Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h, _ := newTestRouter(t, nil)
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8080, ShutdownTimeout: time.Second}, h, nil)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/healthz")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
