package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used here.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// DefaultRetentionDays is how long archived retrieval responses are kept.
const DefaultRetentionDays = 90

var ErrMinIOClientClosed = errors.New(errors.ErrCodeStorageError, "minio client is closed")

type MinIOClient struct {
	client MinIOAPI
	bucket string
	region string
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewMinIOClient connects, makes sure the archive bucket exists and installs
// the retention rule.
func NewMinIOClient(cfg *config.MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := newMinIOClientWithAPI(client, cfg.Bucket, cfg.Region, log)
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	c.SetupLifecycleRules(ctx, DefaultRetentionDays)

	log.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

func newMinIOClientWithAPI(api MinIOAPI, bucket, region string, log logging.Logger) *MinIOClient {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MinIOClient{client: api, bucket: bucket, region: region, logger: log}
}

func applyDefaults(cfg *config.MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = config.DefaultMinIORegion
	}
	if cfg.Bucket == "" {
		cfg.Bucket = config.DefaultMinIOBucket
	}
}

func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket "+c.bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.bucket))
	return nil
}

// SetupLifecycleRules expires archived responses after days. Failure is only
// logged; some S3 implementations reject lifecycle configuration.
func (c *MinIOClient) SetupLifecycleRules(ctx context.Context, days int) {
	if days <= 0 {
		return
	}
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:     "retrieval-archive-expiry",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(days),
			},
			Prefix: archivePrefix,
		},
	}
	if err := c.client.SetBucketLifecycle(ctx, c.bucket, cfg); err != nil {
		c.logger.Warn("Failed to set lifecycle for archive bucket",
			logging.String("bucket", c.bucket), logging.Err(err))
	}
}

func (c *MinIOClient) Bucket() string {
	return c.bucket
}

func (c *MinIOClient) GetClient() MinIOAPI {
	return c.client
}

// HealthCheck reports whether the archive bucket is reachable.
func (c *MinIOClient) HealthCheck(ctx context.Context) error {
	if c.isClosed() {
		return ErrMinIOClientClosed
	}
	ok, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "minio health check failed")
	}
	if !ok {
		return errors.New(errors.ErrCodeStorageError, "archive bucket missing").WithDetail(c.bucket)
	}
	return nil
}

func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MinIOClient) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
