package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service records.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	SearchesTotal       CounterVec
	SearchDuration      HistogramVec
	CandidatesRetrieved HistogramVec
	ResultsStored       HistogramVec
	TopCombinedScore    HistogramVec

	RetrievalRequestsTotal CounterVec
	RetrievalDuration      HistogramVec
	EmbeddingFailuresTotal CounterVec

	EventsPublishedTotal CounterVec
	ArchiveWritesTotal   CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultProviderDurationBuckets = []float64{.5, 1, 2, 5, 10, 20, 30, 60}
	DefaultCountBuckets            = []float64{0, 1, 3, 5, 10, 15, 20, 30}
	DefaultScoreBuckets            = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, .95}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.SearchesTotal = collector.RegisterCounter("prior_art_searches_total", "Prior-art searches by outcome", "outcome", "semantic")
	m.SearchDuration = collector.RegisterHistogram("prior_art_search_duration_seconds", "End-to-end prior-art search duration", DefaultProviderDurationBuckets, "outcome")
	m.CandidatesRetrieved = collector.RegisterHistogram("prior_art_candidates_retrieved", "Candidates returned by the retrieval provider", DefaultCountBuckets)
	m.ResultsStored = collector.RegisterHistogram("prior_art_results_stored", "Results stored per search", DefaultCountBuckets)
	m.TopCombinedScore = collector.RegisterHistogram("prior_art_top_combined_score", "Combined score of the top-ranked result", DefaultScoreBuckets)

	m.RetrievalRequestsTotal = collector.RegisterCounter("retrieval_requests_total", "Retrieval provider calls", "status")
	m.RetrievalDuration = collector.RegisterHistogram("retrieval_duration_seconds", "Retrieval provider call duration", DefaultProviderDurationBuckets)
	m.EmbeddingFailuresTotal = collector.RegisterCounter("embedding_failures_total", "Embedding failures by stage", "stage")

	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Domain events published", "type", "status")
	m.ArchiveWritesTotal = collector.RegisterCounter("archive_writes_total", "Raw retrieval archive writes", "status")

	return m
}

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveSearch records one finished search. outcome is "success" or an
// error class such as "not_found", "config", "persist".
func (m *AppMetrics) ObserveSearch(outcome string, semantic bool, candidates, stored int, topScore float64, d time.Duration) {
	m.SearchesTotal.WithLabelValues(outcome, strconv.FormatBool(semantic)).Inc()
	m.SearchDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome != "success" {
		return
	}
	m.CandidatesRetrieved.WithLabelValues().Observe(float64(candidates))
	m.ResultsStored.WithLabelValues().Observe(float64(stored))
	if stored > 0 {
		m.TopCombinedScore.WithLabelValues().Observe(topScore)
	}
}

func (m *AppMetrics) ObserveRetrieval(status string, d time.Duration) {
	m.RetrievalRequestsTotal.WithLabelValues(status).Inc()
	m.RetrievalDuration.WithLabelValues().Observe(d.Seconds())
}

// IncEmbeddingFailure counts a failed embedding; stage is "query" or
// "candidate".
func (m *AppMetrics) IncEmbeddingFailure(stage string) {
	m.EmbeddingFailuresTotal.WithLabelValues(stage).Inc()
}

func (m *AppMetrics) IncEventPublished(eventType string, err error) {
	m.EventsPublishedTotal.WithLabelValues(eventType, statusOf(err)).Inc()
}

func (m *AppMetrics) IncArchiveWrite(err error) {
	m.ArchiveWritesTotal.WithLabelValues(statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
