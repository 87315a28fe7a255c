package bootstrap

import (
	"context"
	"io"

	app "github.com/turtacn/PatentBot-AI/internal/application/priorart"
	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/redis"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/storage/minio"
	"github.com/turtacn/PatentBot-AI/internal/intelligence/embedding"
	"github.com/turtacn/PatentBot-AI/internal/intelligence/provider"
	"github.com/turtacn/PatentBot-AI/internal/intelligence/retrieval"
)

// EventSource is stamped on every published search event.
const EventSource = "patentbot"

// PipelineOptions carries the optional collaborators of the service.
type PipelineOptions struct {
	Metrics app.Metrics
	Logger  logging.Logger
}

// NewPriorArtService builds the search service on top of infra. The returned
// closer releases the embedding client and must be closed before infra.
func NewPriorArtService(ctx context.Context, cfg *config.Config, infra *Infrastructure, opts PipelineOptions) (app.Service, io.Closer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	deps := app.Deps{
		Config:    app.ConfigFrom(cfg.Search),
		Sessions:  repositories.NewPostgresSessionRepo(infra.Postgres, logger),
		Results:   repositories.NewPostgresResultRepo(infra.Postgres, logger),
		Retriever: NewRetriever(cfg.Search, logger),
		Metrics:   opts.Metrics,
		Logger:    logger,
	}

	var cache embedding.VectorCache
	if infra.Redis != nil {
		cache = redis.NewEmbeddingCache(infra.Redis, cfg.Redis.EmbeddingCacheTTL, logger)
		deps.Locker = redis.NewSearchLocker(infra.Redis, cfg.Redis.SearchLockTTL, logger)
	}
	if infra.Producer != nil {
		deps.Publisher = kafka.NewSearchEventPublisher(infra.Producer, cfg.Kafka.Topic, EventSource)
	}
	if infra.MinIO != nil {
		deps.Archiver = minio.NewRetrievalArchiver(infra.MinIO, logger)
	}

	embedder, closer, err := embedding.New(ctx, cfg.Search, cache, logger)
	if err != nil {
		return nil, nil, err
	}
	if embedder == nil {
		logger.Warn("embedding API key not set; results will be scored by keyword overlap only")
	} else {
		deps.Embedder = embedder
	}

	return app.NewService(deps), closer, nil
}

// NewRetriever builds the guarded web-search retrieval client.
func NewRetriever(sc config.SearchConfig, logger logging.Logger) retrieval.Retriever {
	guard := provider.NewGuard(provider.GuardConfig{
		Name:          "retrieval-perplexity",
		RatePerSecond: sc.RateLimitPerSecond,
		Burst:         sc.RateLimitBurst,
		MaxFailures:   sc.BreakerMaxFailures,
		OpenTimeout:   sc.BreakerOpenTimeout,
	}, logger)

	return retrieval.NewPerplexityClient(retrieval.PerplexityConfig{
		APIKey:     sc.RetrievalAPIKey,
		BaseURL:    sc.RetrievalBaseURL,
		Model:      sc.RetrievalModel,
		Timeout:    sc.RequestTimeout,
		MaxRetries: sc.MaxRetries,
		Source:     sc.SourceLabel,
	}, logger, retrieval.WithGuard(guard))
}
