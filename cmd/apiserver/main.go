// API server entry point for PatentBot AI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/PatentBot-AI/internal/bootstrap"
	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/tracing"
	httpserver "github.com/turtacn/PatentBot-AI/internal/interfaces/http"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const tracerShutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment only when empty)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *envFile, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string, port int) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
		ServiceName: cfg.Log.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	logger.Info("starting PatentBot AI API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing, version, logger)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(tctx); err != nil {
			logger.Warn("tracer shutdown failed", logging.Err(err))
		}
	}()

	infra, err := bootstrap.NewInfrastructure(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("infrastructure: %w", err)
	}
	defer infra.Close()

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	opts := bootstrap.PipelineOptions{Logger: logger}
	if metrics != nil {
		opts.Metrics = metrics
	}
	svc, embedCloser, err := bootstrap.NewPriorArtService(ctx, cfg, infra, opts)
	if err != nil {
		return fmt.Errorf("prior-art pipeline: %w", err)
	}
	defer embedCloser.Close()
	if cfg.Search.RetrievalAPIKey == "" {
		logger.Warn("retrieval API key not set; searches will fail until " + config.EnvRetrievalAPIKey + " is configured")
	}

	var limiter *middleware.ClientLimiter
	if cfg.Server.ClientRateLimit > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.Server.ClientRateLimit
		rl.BurstSize = cfg.Server.ClientRateBurst
		limiter = middleware.NewClientLimiter(rl)
		defer limiter.Stop()
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.Server.CORSAllowedOrigins
	}

	routerCfg := httpserver.RouterConfig{
		PriorArtHandler:  handlers.NewPriorArtHandler(svc, logger),
		HealthHandler:    handlers.NewHealthHandler(version, healthCheckers(infra)...),
		RequestTimeout:   cfg.Server.RequestTimeout,
		CORS:             corsCfg,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	}
	if limiter != nil {
		routerCfg.SearchLimiter = limiter
	}

	if configPath != "" {
		watchConfig(configPath, cfg, logger)
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// watchConfig logs edits to the configuration file. Settings are read once
// at start-up.
func watchConfig(path string, current *config.Config, logger logging.Logger) {
	err := config.Watch(path, func(next *config.Config) {
		logger.Warn("configuration file changed; restart to apply",
			logging.String("path", path),
			logging.Bool("server_changed", next.Server.Addr() != current.Server.Addr()),
			logging.Bool("search_changed", next.Search != current.Search))
	}, func(err error) {
		logger.Error("configuration file change rejected", logging.Err(err))
	})
	if err != nil {
		logger.Warn("configuration watch unavailable", logging.Err(err))
	}
}
