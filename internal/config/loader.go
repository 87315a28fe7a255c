package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PATENTBOT"

// EnvRetrievalAPIKey is the variable operators set for the retrieval credential.
// Error messages reference it so a missing key is easy to diagnose.
const EnvRetrievalAPIKey = envPrefix + "_SEARCH_RETRIEVAL_API_KEY"

// legacyEnv lists provider-native variable names accepted as fallbacks.
var legacyEnv = map[string][]string{
	"search.retrieval_api_key": {"PERPLEXITY_API_KEY"},
	"search.embedding_api_key": {"OPENAI_API_KEY", "GEMINI_API_KEY"},
}

// boundKeys are bound explicitly so env-only deployments work without a file.
var boundKeys = []string{
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.idle_timeout", "server.shutdown_timeout", "server.request_timeout",
	"server.cors_allowed_origins", "server.client_rate_limit", "server.client_rate_burst",

	"database.host", "database.port", "database.name", "database.user",
	"database.password", "database.ssl_mode", "database.max_open_conns",
	"database.max_idle_conns", "database.conn_max_lifetime", "database.conn_max_idle_time",
	"database.statement_timeout", "database.migrations_path", "database.auto_migrate",

	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.key_prefix", "redis.embedding_cache_ttl", "redis.search_lock_ttl",

	"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.client_id",

	"minio.enabled", "minio.endpoint", "minio.access_key_id", "minio.secret_access_key",
	"minio.use_ssl", "minio.region", "minio.bucket",

	"log.level", "log.format", "log.service_name",

	"metrics.enabled", "metrics.namespace", "metrics.path",

	"tracing.enabled", "tracing.endpoint", "tracing.insecure", "tracing.sample_ratio",
	"tracing.environment",

	"search.retrieval_base_url", "search.retrieval_model",
	"search.embedding_provider", "search.embedding_base_url", "search.embedding_model",
	"search.embedding_concurrency", "search.max_context_chars", "search.request_timeout",
	"search.max_retries", "search.rate_limit_per_second", "search.rate_limit_burst",
	"search.breaker_max_failures", "search.breaker_open_timeout", "search.source_label",
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range boundKeys {
		_ = v.BindEnv(key)
	}
	for key, fallbacks := range legacyEnv {
		_ = v.BindEnv(append([]string{key, envName(key)}, fallbacks...)...)
	}
	return v
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored; existing variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configPath, overlays environment variables, applies defaults and
// validates. An empty configPath behaves like LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds the configuration from environment variables and defaults.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch re-reads configPath on change and invokes onChange with the new
// configuration. Invalid intermediate edits are passed to onError and skipped.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load for main packages; it panics on error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
