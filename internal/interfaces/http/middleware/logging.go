package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/prometheus"
)

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are not logged. Metrics are still recorded for them.
	SkipPaths []string

	// SlowThreshold is the duration above which a request is logged at warn level.
	SlowThreshold time.Duration

	// Metrics, when set, receives one observation per request.
	Metrics *prometheus.AppMetrics
}

// DefaultLoggingConfig skips probe and scrape endpoints. Searches call two
// external providers, so the slow threshold is generous.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 20 * time.Second,
	}
}

// RequestLogging logs every request with its status and latency and records
// HTTP metrics labelled by route pattern.
func RequestLogging(logger logging.Logger, config LoggingConfig) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	skipSet := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skipSet[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			if config.Metrics != nil {
				config.Metrics.HTTPActiveRequests.WithLabelValues(r.Method).Inc()
				defer config.Metrics.HTTPActiveRequests.WithLabelValues(r.Method).Dec()
			}

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if config.Metrics != nil {
				prometheus.RecordHTTPRequest(config.Metrics, r.Method, routePattern(r), status, duration)
			}
			if skipSet[r.URL.Path] {
				return
			}

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", status),
				logging.Duration("duration", duration),
				logging.Int("bytes", ww.BytesWritten()),
				logging.String("remote_addr", r.RemoteAddr),
				logging.RequestID(chimw.GetReqID(r.Context())),
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, logging.String("user_agent", ua))
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("HTTP request completed with server error", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("HTTP request completed with client error", fields...)
			case config.SlowThreshold > 0 && duration >= config.SlowThreshold:
				logger.Warn("HTTP request completed (slow)", fields...)
			default:
				logger.Info("HTTP request completed", fields...)
			}
		})
	}
}

// routePattern keeps metric cardinality bounded: session ids never become labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
