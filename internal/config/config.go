// Package config loads and validates the service configuration from a YAML
// file, an optional .env file and PATENTBOT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for both the API server and the CLI.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Search   SearchConfig   `mapstructure:"search"`
}

type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	// ClientRateLimit is the per-client request rate on search endpoints.
	// A negative value disables limiting.
	ClientRateLimit    float64       `mapstructure:"client_rate_limit"`
	ClientRateBurst    int           `mapstructure:"client_rate_burst"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	MigrationsPath   string        `mapstructure:"migrations_path"`
	AutoMigrate      bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Addr              string        `mapstructure:"addr"`
	Password          string        `mapstructure:"password"`
	DB                int           `mapstructure:"db"`
	PoolSize          int           `mapstructure:"pool_size"`
	DialTimeout       time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	KeyPrefix         string        `mapstructure:"key_prefix"`
	EmbeddingCacheTTL time.Duration `mapstructure:"embedding_cache_ttl"`
	SearchLockTTL     time.Duration `mapstructure:"search_lock_ttl"`
}

type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	ClientID     string        `mapstructure:"client_id"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
}

type MinIOConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
	ServiceName string   `mapstructure:"service_name"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
}

// SearchConfig configures the prior-art pipeline and its AI providers.
// RetrievalAPIKey and EmbeddingAPIKey are not validated here:
// a missing retrieval key fails each search, a missing embedding key
// degrades it to keyword-only scoring.
type SearchConfig struct {
	RetrievalAPIKey  string `mapstructure:"retrieval_api_key"`
	RetrievalBaseURL string `mapstructure:"retrieval_base_url"`
	RetrievalModel   string `mapstructure:"retrieval_model"`

	EmbeddingProvider string `mapstructure:"embedding_provider"`
	EmbeddingAPIKey   string `mapstructure:"embedding_api_key"`
	EmbeddingBaseURL  string `mapstructure:"embedding_base_url"`
	EmbeddingModel    string `mapstructure:"embedding_model"`

	EmbeddingConcurrency int           `mapstructure:"embedding_concurrency"`
	MaxContextChars      int           `mapstructure:"max_context_chars"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RateLimitPerSecond   float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst       int           `mapstructure:"rate_limit_burst"`
	BreakerMaxFailures   uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout   time.Duration `mapstructure:"breaker_open_timeout"`
	SourceLabel          string        `mapstructure:"source_label"`
}

const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderGemini = "gemini"
)

// Validate checks structural constraints after defaults have been applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("config: server.request_timeout must be positive")
	}
	if strings.TrimSpace(c.Database.Host) == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("config: database.max_idle_conns (%d) exceeds max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
	}
	if c.Tracing.Enabled && (c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1) {
		return fmt.Errorf("config: tracing.sample_ratio %.2f is out of range [0, 1]", c.Tracing.SampleRatio)
	}
	switch c.Search.EmbeddingProvider {
	case EmbeddingProviderOpenAI, EmbeddingProviderGemini:
	default:
		return fmt.Errorf("config: search.embedding_provider %q is not supported", c.Search.EmbeddingProvider)
	}
	if c.Search.EmbeddingConcurrency < 1 {
		return fmt.Errorf("config: search.embedding_concurrency must be at least 1")
	}
	if c.Search.MaxContextChars < 1 {
		return fmt.Errorf("config: search.max_context_chars must be at least 1")
	}
	if c.Search.MaxRetries < 0 {
		return fmt.Errorf("config: search.max_retries must not be negative")
	}
	return nil
}
