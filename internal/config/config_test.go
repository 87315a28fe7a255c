package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"request timeout", func(c *Config) { c.Server.RequestTimeout = -1 }, "server.request_timeout"},
		{"db host", func(c *Config) { c.Database.Host = " " }, "database.host"},
		{"db idle", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"redis addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"kafka brokers", func(c *Config) { c.Kafka.Enabled = true }, "kafka.brokers"},
		{"minio endpoint", func(c *Config) { c.MinIO.Enabled = true }, "minio.endpoint"},
		{"sample ratio", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.SampleRatio = 2 }, "sample_ratio"},
		{"provider", func(c *Config) { c.Search.EmbeddingProvider = "cohere" }, "embedding_provider"},
		{"concurrency", func(c *Config) { c.Search.EmbeddingConcurrency = -1 }, "embedding_concurrency"},
		{"context", func(c *Config) { c.Search.MaxContextChars = -5 }, "max_context_chars"},
		{"retries", func(c *Config) { c.Search.MaxRetries = -1 }, "max_retries"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.errMsg)
			}
		})
	}
}

func TestValidate_MissingCredentialsAreAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Search.RetrievalAPIKey = ""
	cfg.Search.EmbeddingAPIKey = ""
	assert.NoError(t, cfg.Validate())
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9090", ServerConfig{Host: "127.0.0.1", Port: 9090}.Addr())
}
