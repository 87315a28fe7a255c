package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithGoMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("things_total", "Things", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_things_total{kind="a"} 3`)
}

func TestRegisterCounter_DuplicateReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "Dup", "kind").WithLabelValues("x").Inc()
	c.RegisterCounter("dup_total", "Dup", "kind").WithLabelValues("x").Inc()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_dup_total{kind="x"} 2`)
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("mixed", "Mixed")
	g := c.RegisterGauge("mixed", "Mixed")

	assert.IsType(t, noopGaugeVec{}, g)
	assert.NotPanics(t, func() { g.WithLabelValues().Set(1) })
}

func TestRegisterHistogramAndTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("op_seconds", "Op", nil, "op")

	timer := NewTimer(h.WithLabelValues("x"))
	time.Sleep(time.Millisecond)
	d := timer.ObserveDuration()

	assert.True(t, d > 0)
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_op_seconds_count{op="x"} 1`)
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("inflight", "In flight", "method")
	g.WithLabelValues("POST").Inc()
	g.WithLabelValues("POST").Inc()
	g.WithLabelValues("POST").Dec()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_inflight{method="POST"} 1`)
}
