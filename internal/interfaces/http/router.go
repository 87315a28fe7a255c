package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/middleware"
)

// Route paths. LegacySearchPath keeps existing function-style clients working.
const (
	SearchPath       = "/api/v1/prior-art/search"
	LegacySearchPath = "/functions/v1/search-prior-art"
	ResultsPath      = "/api/v1/prior-art/sessions/{sessionID}/results"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	PriorArtHandler *handlers.PriorArtHandler
	HealthHandler   *handlers.HealthHandler

	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
	// SearchLimiter throttles search requests per client. Nil disables it.
	SearchLimiter middleware.RateLimiter

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORS))

	logCfg := middleware.DefaultLoggingConfig()
	logCfg.Metrics = cfg.Metrics
	r.Use(middleware.RequestLogging(cfg.Logger, logCfg))

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	if cfg.PriorArtHandler == nil {
		return r
	}

	r.Group(func(api chi.Router) {
		if cfg.RequestTimeout > 0 {
			api.Use(chimw.Timeout(cfg.RequestTimeout))
		}

		api.Group(func(search chi.Router) {
			if cfg.SearchLimiter != nil {
				search.Use(middleware.RateLimit(cfg.SearchLimiter, middleware.ClientIP))
			}
			search.Post(SearchPath, cfg.PriorArtHandler.Search)
			search.Post(LegacySearchPath, cfg.PriorArtHandler.Search)
		})

		api.Get(ResultsPath, cfg.PriorArtHandler.ListResults)
	})

	return r
}
