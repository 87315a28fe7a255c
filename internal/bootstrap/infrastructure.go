// Package bootstrap assembles the prior-art pipeline from configuration. It
// is shared by the API server and the CLI so both run the same wiring.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/redis"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/storage/minio"
)

// Infrastructure holds the connections to backing services. Postgres is
// always present; the others are nil unless enabled in the configuration.
type Infrastructure struct {
	Postgres *postgres.Connection
	Redis    *redis.Client
	MinIO    *minio.MinIOClient
	Producer *kafka.Producer

	logger logging.Logger
}

// Close releases every open connection. It is safe on a partially built value.
func (i *Infrastructure) Close() {
	if i.Producer != nil {
		if err := i.Producer.Close(); err != nil {
			i.logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if i.MinIO != nil {
		_ = i.MinIO.Close()
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.logger.Warn("redis close failed", logging.Err(err))
		}
	}
	if i.Postgres != nil {
		if err := i.Postgres.Close(); err != nil {
			i.logger.Warn("postgres close failed", logging.Err(err))
		}
	}
}

// NewInfrastructure connects to Postgres and to each enabled optional
// backend. On failure everything opened so far is closed.
func NewInfrastructure(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Infrastructure, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	infra := &Infrastructure{logger: logger}

	pg, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	infra.Postgres = pg

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(postgres.MigrationURL(cfg.Database), cfg.Database.MigrationsPath); err != nil {
			infra.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		logger.Info("database migrations applied", logging.String("path", cfg.Database.MigrationsPath))
	}

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.Redis = rc
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewMinIOClient(&cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.MinIO = mc
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka: %w", err)
		}
		infra.Producer = p
	}

	logger.Info("infrastructure initialized",
		logging.Bool("redis", infra.Redis != nil),
		logging.Bool("minio", infra.MinIO != nil),
		logging.Bool("kafka", infra.Producer != nil))
	return infra, nil
}
