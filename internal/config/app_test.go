package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, 120*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "vader", cfg.Sentiment.Backend)
	assert.Len(t, cfg.CORS.AllowedOrigins, 4)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	cfg, err := load(t.TempDir(), []string{
		"HTTP_ADDR=:9000",
		"REQUEST_TIMEOUT=30s",
		"SENTIMENT_BACKEND=openai",
		"OPENAI_API_KEY=sk-test",
		"OPENAI_MODEL=gpt-4o",
		"SUMMARY_BACKEND=claude",
		"ANTHROPIC_API_KEY=key",
		"CORS_ALLOWED_ORIGINS=https://a.example,https://b.example",
		"RATE_LIMIT_WINDOW=30s",
		"TRACE_SAMPLE_RATIO=0.25",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "key", cfg.Claude.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Claude.Model, "unset keys keep defaults")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 1e-9)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
http:
  addr: ":7000"
  version: "1.2.3"
summary:
  backend: huggingface
  chunk_concurrency: 4
  chunk_chars: 1500
cache:
  address: "localhost:6379"
  ttl: 1h
`)

	cfg, err := load(dir, []string{"CONFIG_FILE=" + path, "HTTP_ADDR=:7001", "SUMMARY_CHUNK_CHARS=2000"})
	require.NoError(t, err)

	assert.Equal(t, ":7001", cfg.HTTP.Addr, "env wins over yaml")
	assert.Equal(t, "1.2.3", cfg.HTTP.Version)
	assert.Equal(t, "huggingface", cfg.Summary.Backend)
	assert.Equal(t, 4, cfg.Summary.ChunkConcurrency)
	assert.Equal(t, 2000, cfg.Summary.ChunkChars, "env wins over yaml")
	assert.Equal(t, "localhost:6379", cfg.Cache.Address)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "http:\n  port: 80\n")

	_, err := load(dir, []string{"CONFIG_FILE=" + path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_YAMLMissingFile(t *testing.T) {
	_, err := load(t.TempDir(), []string{"CONFIG_FILE=/does/not/exist.yaml"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env.local", "LOG_LEVEL=debug\nHTTP_ADDR=:8080\n")

	cfg, err := load(dir, []string{"APP_ENV=local", "HTTP_ADDR=:8081"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8081", cfg.HTTP.Addr, "process env wins over dotenv")
}

func TestLoad_DotenvMissingIsIgnored(t *testing.T) {
	cfg, err := load(t.TempDir(), []string{"APP_ENV=staging"})

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	_, err := load(t.TempDir(), []string{"REQUEST_TIMEOUT=soon"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown sentiment backend", func(c *Config) { c.Sentiment.Backend = "bert" }, "SENTIMENT_BACKEND"},
		{"unknown summary backend", func(c *Config) { c.Summary.Backend = "t5" }, "SUMMARY_BACKEND"},
		{"openai without key", func(c *Config) { c.Summary.Backend = "openai" }, "OPENAI_API_KEY"},
		{"claude without key", func(c *Config) { c.Summary.Backend = "claude" }, "ANTHROPIC_API_KEY"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "LOG_FORMAT"},
		{"zero body limit", func(c *Config) { c.HTTP.MaxBodyBytes = 0 }, "MAX_BODY_BYTES"},
		{"bad schedule", func(c *Config) { c.Monitor.Schedule = "sometimes" }, "HEALTH_PROBE_SCHEDULE"},
		{"bad inference url", func(c *Config) { c.HuggingFace.URL = "ftp://x" }, "HF_INFERENCE_URL"},
		{"too much concurrency", func(c *Config) { c.Summary.ChunkConcurrency = 64 }, "SUMMARY_CHUNK_CONCURRENCY"},
		{"tiny chunks", func(c *Config) { c.Summary.ChunkChars = 10 }, "SUMMARY_CHUNK_CHARS"},
		{"sample ratio above one", func(c *Config) { c.Tracing.SampleRatio = 2 }, "TRACE_SAMPLE_RATIO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Addr = ""
	cfg.Log.Level = "loud"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_ADDR")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}
