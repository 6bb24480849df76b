// Package config loads the API server configuration.
//
// Sources are layered, later ones winning:
//  1. built-in defaults (Default)
//  2. config/envs/.env.<APP_ENV>, when APP_ENV is set and the file exists
//  3. the YAML file named by CONFIG_FILE
//  4. process environment variables
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	pkgconfig "commentlens/internal/pkg/config"
)

// Config is the complete server configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Log         LogConfig         `yaml:"log"`
	Sentiment   SentimentConfig   `yaml:"sentiment"`
	Summary     SummaryConfig     `yaml:"summary"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	OpenAI      LLMConfig         `yaml:"openai" envPrefix:"OPENAI_"`
	Claude      LLMConfig         `yaml:"claude" envPrefix:"ANTHROPIC_"`
	Cache       CacheConfig       `yaml:"cache"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	CORS        CORSConfig        `yaml:"cors"`
	Tracing     TracingConfig     `yaml:"tracing"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr" env:"HTTP_ADDR"`
	Version        string        `yaml:"version" env:"VERSION"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" env:"SHUTDOWN_GRACE"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type SentimentConfig struct {
	Backend    string `yaml:"backend" env:"SENTIMENT_BACKEND"`
	HugotModel string `yaml:"hugot_model" env:"HUGOT_MODEL"`
	HugotDir   string `yaml:"hugot_model_dir" env:"HUGOT_MODEL_DIR"`
}

type SummaryConfig struct {
	Backend          string `yaml:"backend" env:"SUMMARY_BACKEND"`
	ChunkConcurrency int    `yaml:"chunk_concurrency" env:"SUMMARY_CHUNK_CONCURRENCY"`
	ChunkChars       int    `yaml:"chunk_chars" env:"SUMMARY_CHUNK_CHARS"`
}

// HuggingFaceConfig configures the hosted inference client shared by the
// huggingface sentiment and summary backends.
type HuggingFaceConfig struct {
	Token          string        `yaml:"api_token" env:"HF_API_TOKEN"`
	URL            string        `yaml:"inference_url" env:"HF_INFERENCE_URL"`
	SentimentModel string        `yaml:"sentiment_model" env:"HF_SENTIMENT_MODEL"`
	SummaryModel   string        `yaml:"summary_model" env:"HF_SUMMARY_MODEL"`
	Timeout        time.Duration `yaml:"timeout" env:"HF_TIMEOUT"`
	RateLimit      float64       `yaml:"rate_limit" env:"INFERENCE_RATE_LIMIT"`
	Burst          int           `yaml:"burst" env:"INFERENCE_BURST"`
}

// LLMConfig configures a chat model provider. Env names carry the provider
// prefix, e.g. OPENAI_API_KEY or ANTHROPIC_API_KEY.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	Model   string        `yaml:"model" env:"MODEL"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// CacheConfig enables the Valkey result cache when Address is set.
type CacheConfig struct {
	Address  string        `yaml:"address" env:"CACHE_ADDRESS"`
	Password string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB       int           `yaml:"db" env:"CACHE_DB"`
	TLS      bool          `yaml:"tls" env:"CACHE_TLS"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL"`
}

type MonitorConfig struct {
	Schedule     string        `yaml:"schedule" env:"HEALTH_PROBE_SCHEDULE"`
	Timezone     string        `yaml:"timezone" env:"HEALTH_PROBE_TIMEZONE"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" env:"HEALTH_PROBE_TIMEOUT"`
}

type RateLimitConfig struct {
	Requests       int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
	Window         time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	TrustedProxies []string      `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`
}

type CORSConfig struct {
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	MaxAge         time.Duration `yaml:"max_age" env:"CORS_MAX_AGE"`
}

type TracingConfig struct {
	SampleRatio float64 `yaml:"sample_ratio" env:"TRACE_SAMPLE_RATIO"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:           ":8000",
			Version:        "dev",
			RequestTimeout: 120 * time.Second,
			MaxBodyBytes:   1 << 20,
			ShutdownGrace:  10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Sentiment: SentimentConfig{
			Backend:    "vader",
			HugotModel: "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english",
			HugotDir:   "./models",
		},
		Summary: SummaryConfig{Backend: "extractive", ChunkConcurrency: 1, ChunkChars: 3000},
		HuggingFace: HuggingFaceConfig{
			SentimentModel: "cardiffnlp/twitter-roberta-base-sentiment",
			SummaryModel:   "facebook/bart-large-cnn",
			Timeout:        60 * time.Second,
			RateLimit:      5,
			Burst:          5,
		},
		OpenAI: LLMConfig{Model: "gpt-4o-mini", Timeout: 60 * time.Second},
		Claude: LLMConfig{Model: "claude-sonnet-4-5", Timeout: 60 * time.Second},
		Cache:  CacheConfig{TTL: 24 * time.Hour},
		Monitor: MonitorConfig{
			Schedule:     "@every 30s",
			Timezone:     "UTC",
			ProbeTimeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{Requests: 60, Window: time.Minute},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
			MaxAge: 10 * time.Minute,
		},
		Tracing: TracingConfig{SampleRatio: 1},
	}
}

var loadMetrics = pkgconfig.NewConfigMetrics("app")

// Load builds the configuration from all sources and validates it.
func Load() (*Config, error) {
	return load("config/envs", os.Environ())
}

func load(envDir string, environ []string) (*Config, error) {
	cfg := Default()
	vars := toMap(environ)

	if appEnv := vars["APP_ENV"]; appEnv != "" {
		dotenv, err := readDotenv(filepath.Join(envDir, ".env."+appEnv))
		if err != nil {
			return nil, err
		}
		// Real environment variables win over the dotenv file.
		for k, v := range dotenv {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
		if dotenv != nil {
			loadMetrics.RecordSource("dotenv")
		}
	}

	if path := vars["CONFIG_FILE"]; path != "" {
		if err := readYAML(path, &cfg); err != nil {
			return nil, err
		}
		loadMetrics.RecordSource("yaml")
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	loadMetrics.RecordSource("env")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loadMetrics.RecordLoadTimestamp()
	return &cfg, nil
}

func toMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

// readDotenv returns nil without error when the file does not exist.
func readDotenv(path string) (gotenv.Env, error) {
	vars, err := gotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no .env file found, using OS environment", slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

func readYAML(path string, cfg *Config) error {
	// #nosec G304 -- path comes from the operator's CONFIG_FILE, not from requests
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate checks every value and counts rejected fields in the config metrics.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		err   error
	}{
		{"HTTP_ADDR", nonEmpty(c.HTTP.Addr)},
		{"REQUEST_TIMEOUT", pkgconfig.ValidateDuration(c.HTTP.RequestTimeout, time.Second, 10*time.Minute)},
		{"MAX_BODY_BYTES", positive(c.HTTP.MaxBodyBytes)},
		{"SHUTDOWN_GRACE", pkgconfig.ValidatePositiveDuration(c.HTTP.ShutdownGrace)},
		{"LOG_LEVEL", pkgconfig.ValidateOneOf(c.Log.Level, "debug", "info", "warn", "error")},
		{"LOG_FORMAT", pkgconfig.ValidateOneOf(c.Log.Format, "json", "text", "pretty")},
		{"SENTIMENT_BACKEND", pkgconfig.ValidateOneOf(c.Sentiment.Backend, "vader", "huggingface", "hugot", "openai")},
		{"SUMMARY_BACKEND", pkgconfig.ValidateOneOf(c.Summary.Backend, "huggingface", "openai", "claude", "extractive")},
		{"SUMMARY_CHUNK_CONCURRENCY", pkgconfig.ValidateIntRange(c.Summary.ChunkConcurrency, 1, 16)},
		{"SUMMARY_CHUNK_CHARS", pkgconfig.ValidateIntRange(c.Summary.ChunkChars, 500, 100000)},
		{"HF_INFERENCE_URL", pkgconfig.ValidateHTTPURL(c.HuggingFace.URL)},
		{"HF_TIMEOUT", pkgconfig.ValidatePositiveDuration(c.HuggingFace.Timeout)},
		{"INFERENCE_RATE_LIMIT", positive(c.HuggingFace.RateLimit)},
		{"INFERENCE_BURST", pkgconfig.ValidateIntRange(c.HuggingFace.Burst, 1, 1000)},
		{"OPENAI_BASE_URL", pkgconfig.ValidateHTTPURL(c.OpenAI.BaseURL)},
		{"OPENAI_TIMEOUT", pkgconfig.ValidatePositiveDuration(c.OpenAI.Timeout)},
		{"ANTHROPIC_BASE_URL", pkgconfig.ValidateHTTPURL(c.Claude.BaseURL)},
		{"ANTHROPIC_TIMEOUT", pkgconfig.ValidatePositiveDuration(c.Claude.Timeout)},
		{"CACHE_TTL", pkgconfig.ValidateDuration(c.Cache.TTL, time.Second, 30*24*time.Hour)},
		{"HEALTH_PROBE_SCHEDULE", pkgconfig.ValidateCronSchedule(c.Monitor.Schedule)},
		{"HEALTH_PROBE_TIMEZONE", pkgconfig.ValidateTimezone(c.Monitor.Timezone)},
		{"RATE_LIMIT_REQUESTS", pkgconfig.ValidateIntRange(c.RateLimit.Requests, 1, 100000)},
		{"RATE_LIMIT_WINDOW", pkgconfig.ValidateDuration(c.RateLimit.Window, time.Second, 24*time.Hour)},
		{"CORS_MAX_AGE", pkgconfig.ValidateDuration(c.CORS.MaxAge, 0, 24*time.Hour)},
		{"TRACE_SAMPLE_RATIO", ratio(c.Tracing.SampleRatio)},
	}

	if c.usesOpenAI() {
		checks = append(checks, struct {
			field string
			err   error
		}{"OPENAI_API_KEY", nonEmpty(c.OpenAI.APIKey)})
	}
	if strings.EqualFold(c.Summary.Backend, "claude") {
		checks = append(checks, struct {
			field string
			err   error
		}{"ANTHROPIC_API_KEY", nonEmpty(c.Claude.APIKey)})
	}

	var errs []error
	for _, chk := range checks {
		if chk.err != nil {
			loadMetrics.RecordValidationError(chk.field)
			errs = append(errs, fmt.Errorf("%s: %w", chk.field, chk.err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) usesOpenAI() bool {
	return strings.EqualFold(c.Sentiment.Backend, "openai") || strings.EqualFold(c.Summary.Backend, "openai")
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func positive[T int64 | float64](v T) error {
	if v <= 0 {
		return fmt.Errorf("must be positive, got %v", v)
	}
	return nil
}

func ratio(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("must be between 0 and 1, got %v", v)
	}
	return nil
}
