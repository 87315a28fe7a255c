package config

import "time"

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 90 * time.Second
	DefaultServerIdleTimeout     = 120 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultServerRequestTimeout  = 75 * time.Second
	DefaultServerClientRateLimit = 2.0
	DefaultServerClientRateBurst = 10

	DefaultDatabaseHost             = "localhost"
	DefaultDatabasePort             = 5432
	DefaultDatabaseName             = "patentbot"
	DefaultDatabaseUser             = "patentbot"
	DefaultDatabaseSSLMode          = "disable"
	DefaultDatabaseMaxOpenConns     = 25
	DefaultDatabaseMaxIdleConns     = 5
	DefaultDatabaseConnMaxLifetime  = 30 * time.Minute
	DefaultDatabaseConnMaxIdleTime  = 5 * time.Minute
	DefaultDatabaseStatementTimeout = 30 * time.Second
	DefaultDatabaseMigrationsPath   = "file://migrations"

	DefaultRedisAddr              = "localhost:6379"
	DefaultRedisPoolSize          = 10
	DefaultRedisDialTimeout       = 5 * time.Second
	DefaultRedisReadTimeout       = 3 * time.Second
	DefaultRedisWriteTimeout      = 3 * time.Second
	DefaultRedisKeyPrefix         = "patentbot:"
	DefaultRedisEmbeddingCacheTTL = 7 * 24 * time.Hour
	DefaultRedisSearchLockTTL     = 3 * time.Minute

	DefaultKafkaTopic        = "patentbot.prior_art.search_completed"
	DefaultKafkaClientID     = "patentbot-apiserver"
	DefaultKafkaBatchTimeout = 50 * time.Millisecond
	DefaultKafkaWriteTimeout = 10 * time.Second
	DefaultKafkaRequiredAcks = -1

	DefaultMinIORegion = "us-east-1"
	DefaultMinIOBucket = "patentbot-retrievals"

	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultLogServiceName = "patentbot"

	DefaultMetricsNamespace = "patentbot"
	DefaultMetricsPath      = "/metrics"

	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingEnvironment = "production"

	DefaultRetrievalBaseURL     = "https://api.perplexity.ai"
	DefaultRetrievalModel       = "sonar"
	DefaultEmbeddingProvider    = EmbeddingProviderOpenAI
	DefaultOpenAIBaseURL        = "https://api.openai.com/v1"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultGeminiEmbeddingModel = "text-embedding-004"
	DefaultEmbeddingConcurrency = 5
	DefaultMaxContextChars      = 10000
	DefaultSearchRequestTimeout = 30 * time.Second
	DefaultSearchMaxRetries     = 2
	DefaultRateLimitPerSecond   = 5.0
	DefaultRateLimitBurst       = 5
	DefaultBreakerMaxFailures   = 5
	DefaultBreakerOpenTimeout   = 30 * time.Second
	DefaultSourceLabel          = "Perplexity AI Search"
)

// ApplyDefaults fills zero-valued fields of cfg.
func ApplyDefaults(cfg *Config) {
	// ── Server ──
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultServerIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultServerRequestTimeout
	}
	if cfg.Server.ClientRateLimit == 0 {
		cfg.Server.ClientRateLimit = DefaultServerClientRateLimit
	}
	if cfg.Server.ClientRateBurst == 0 {
		cfg.Server.ClientRateBurst = DefaultServerClientRateBurst
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}

	// ── Database ──
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDatabaseHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDatabasePort
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = DefaultDatabaseName
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDatabaseUser
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDatabaseSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDatabaseMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDatabaseMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDatabaseConnMaxLifetime
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = DefaultDatabaseConnMaxIdleTime
	}
	if cfg.Database.StatementTimeout == 0 {
		cfg.Database.StatementTimeout = DefaultDatabaseStatementTimeout
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = DefaultDatabaseMigrationsPath
	}

	// ── Redis ──
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisReadTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisWriteTimeout
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.EmbeddingCacheTTL == 0 {
		cfg.Redis.EmbeddingCacheTTL = DefaultRedisEmbeddingCacheTTL
	}
	if cfg.Redis.SearchLockTTL == 0 {
		cfg.Redis.SearchLockTTL = DefaultRedisSearchLockTTL
	}

	// ── Kafka ──
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}
	if cfg.Kafka.RequiredAcks == 0 {
		cfg.Kafka.RequiredAcks = DefaultKafkaRequiredAcks
	}

	// ── MinIO ──
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Log ──
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.ServiceName == "" {
		cfg.Log.ServiceName = DefaultLogServiceName
	}

	// ── Metrics ──
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Tracing ──
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = cfg.Log.ServiceName
	}
	if cfg.Tracing.Environment == "" {
		cfg.Tracing.Environment = DefaultTracingEnvironment
	}

	// ── Search ──
	s := &cfg.Search
	if s.RetrievalBaseURL == "" {
		s.RetrievalBaseURL = DefaultRetrievalBaseURL
	}
	if s.RetrievalModel == "" {
		s.RetrievalModel = DefaultRetrievalModel
	}
	if s.EmbeddingProvider == "" {
		s.EmbeddingProvider = DefaultEmbeddingProvider
	}
	if s.EmbeddingBaseURL == "" && s.EmbeddingProvider == EmbeddingProviderOpenAI {
		s.EmbeddingBaseURL = DefaultOpenAIBaseURL
	}
	if s.EmbeddingModel == "" {
		switch s.EmbeddingProvider {
		case EmbeddingProviderGemini:
			s.EmbeddingModel = DefaultGeminiEmbeddingModel
		default:
			s.EmbeddingModel = DefaultOpenAIEmbeddingModel
		}
	}
	if s.EmbeddingConcurrency == 0 {
		s.EmbeddingConcurrency = DefaultEmbeddingConcurrency
	}
	if s.MaxContextChars == 0 {
		s.MaxContextChars = DefaultMaxContextChars
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultSearchRequestTimeout
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = DefaultSearchMaxRetries
	}
	if s.RateLimitPerSecond == 0 {
		s.RateLimitPerSecond = DefaultRateLimitPerSecond
	}
	if s.RateLimitBurst == 0 {
		s.RateLimitBurst = DefaultRateLimitBurst
	}
	if s.BreakerMaxFailures == 0 {
		s.BreakerMaxFailures = DefaultBreakerMaxFailures
	}
	if s.BreakerOpenTimeout == 0 {
		s.BreakerOpenTimeout = DefaultBreakerOpenTimeout
	}
	if s.SourceLabel == "" {
		s.SourceLabel = DefaultSourceLabel
	}
}
