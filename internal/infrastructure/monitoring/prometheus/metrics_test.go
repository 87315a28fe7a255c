package prometheus

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppMetrics_Registered(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	require.NotNil(t, m)

	assert.NotNil(t, m.SearchesTotal)
	assert.NotNil(t, m.RetrievalDuration)
	assert.NotNil(t, m.EmbeddingFailuresTotal)

	// Building twice on the same collector reuses the registered vectors.
	assert.NotPanics(t, func() { NewAppMetrics(c) })
}

func TestAppMetrics_ObserveSearch(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.ObserveSearch("success", true, 12, 12, 0.81, 3*time.Second)
	m.ObserveSearch("persist", false, 0, 0, 0, time.Second)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_prior_art_searches_total{outcome="success",semantic="true"} 1`)
	assert.Contains(t, out, `test_unit_prior_art_searches_total{outcome="persist",semantic="false"} 1`)
	assert.Contains(t, out, `test_unit_prior_art_candidates_retrieved_count 1`)
	assert.Contains(t, out, `test_unit_prior_art_top_combined_score_count 1`)
}

func TestAppMetrics_ProviderAndSideEffects(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.ObserveRetrieval("ok", 2*time.Second)
	m.IncEmbeddingFailure("candidate")
	m.IncEmbeddingFailure("candidate")
	m.IncEventPublished("prior_art.search.completed", nil)
	m.IncArchiveWrite(errors.New("boom"))
	RecordHTTPRequest(m, http.MethodPost, "/api/v1/prior-art/search", 200, 10*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_retrieval_requests_total{status="ok"} 1`)
	assert.Contains(t, out, `test_unit_embedding_failures_total{stage="candidate"} 2`)
	assert.Contains(t, out, `test_unit_events_published_total{status="ok",type="prior_art.search.completed"} 1`)
	assert.Contains(t, out, `test_unit_archive_writes_total{status="error"} 1`)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/api/v1/prior-art/search",status_code="200"} 1`)
}
