package bootstrap

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/config"
	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/redis"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

func testInfra(t *testing.T) (*Infrastructure, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Infrastructure{
		Postgres: postgres.NewConnectionWithDB(db, nil),
		logger:   logging.NewNopLogger(),
	}, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Search.RetrievalAPIKey = ""
	cfg.Search.EmbeddingAPIKey = ""
	return cfg
}

func TestNewPriorArtService_MissingRetrievalKey(t *testing.T) {
	infra, mock := testInfra(t)
	svc, closer, err := NewPriorArtService(context.Background(), testConfig(), infra, PipelineOptions{})
	require.NoError(t, err)
	defer closer.Close()

	_, err = svc.Search(context.Background(), &domain.SearchRequest{SessionID: "s-1"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigMissing))
	assert.NoError(t, mock.ExpectationsWereMet(), "no query runs without a retrieval key")
}

func TestNewPriorArtService_ListResultsUnknownSession(t *testing.T) {
	infra, mock := testInfra(t)
	mock.ExpectQuery("FROM sessions").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	svc, closer, err := NewPriorArtService(context.Background(), testConfig(), infra, PipelineOptions{})
	require.NoError(t, err)
	defer closer.Close()

	_, err = svc.ListResults(context.Background(), "missing")

	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPriorArtService_RedisLockRejectsConcurrentSearch(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	infra, _ := testInfra(t)
	rc, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "pb:"}, logging.NewNopLogger())
	require.NoError(t, err)
	infra.Redis = rc
	defer infra.Close()

	cfg := testConfig()
	cfg.Search.RetrievalAPIKey = "pplx-test"
	cfg.Redis.SearchLockTTL = time.Minute

	require.NoError(t, mr.Set("pb:lock:search:s-1", "held-elsewhere"))

	svc, closer, err := NewPriorArtService(context.Background(), cfg, infra, PipelineOptions{})
	require.NoError(t, err)
	defer closer.Close()

	_, err = svc.Search(context.Background(), &domain.SearchRequest{SessionID: "s-1"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSearchInProgress))
}

func TestNewRetriever_AppliesDefaults(t *testing.T) {
	r := NewRetriever(config.SearchConfig{RetrievalAPIKey: "k"}, nil)
	assert.NotNil(t, r)
}
