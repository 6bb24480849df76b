package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"commentlens/internal/config"
	hhttp "commentlens/internal/handler/http"
	"commentlens/internal/handler/http/middleware"
	"commentlens/internal/handler/http/requestid"
	hsentiment "commentlens/internal/handler/http/sentiment"
	hsummary "commentlens/internal/handler/http/summary"
	hwordcloud "commentlens/internal/handler/http/wordcloud"
	"commentlens/internal/infra/cache"
	"commentlens/internal/infra/classifier"
	"commentlens/internal/infra/inference"
	"commentlens/internal/infra/monitor"
	"commentlens/internal/infra/summarizer"
	"commentlens/internal/infra/wordcloud"
	"commentlens/internal/observability/metrics"
	"commentlens/internal/observability/tracing"
	sentimentUC "commentlens/internal/usecase/sentiment"
	"commentlens/internal/usecase/summarize"
	wordcloudUC "commentlens/internal/usecase/wordcloud"
)

// rateLimitCleanupSchedule drops idle client IPs from the rate limiter.
const rateLimitCleanupSchedule = "@every 1m"

// services are the use-case services the analysis routes call.
type services struct {
	sentiment *sentimentUC.Service
	summarize *summarize.Service
	wordcloud *wordcloudUC.Service
}

// server holds everything main starts and stops.
type server struct {
	handler http.Handler
	monitor *monitor.Monitor
	closers []io.Closer
}

// Close releases backend resources.
func (s *server) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close backend", slog.Any("error", err))
		}
	}
}

type closeFunc func()

func (f closeFunc) Close() error { f(); return nil }

// newServer builds the backends, services, monitor and HTTP handler from cfg.
func newServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server, error) {
	s := &server{}
	var probes []monitor.Probe

	var hf *inference.Client
	if strings.EqualFold(cfg.Sentiment.Backend, classifier.BackendHuggingFace) ||
		strings.EqualFold(cfg.Summary.Backend, summarizer.BackendHuggingFace) {
		hf = inference.NewClient("huggingface", inference.Config{
			BaseURL:   cfg.HuggingFace.URL,
			Token:     cfg.HuggingFace.Token,
			Timeout:   cfg.HuggingFace.Timeout,
			RateLimit: cfg.HuggingFace.RateLimit,
			Burst:     cfg.HuggingFace.Burst,
		})
		probes = append(probes, monitor.BreakerProbe(hf.Name(), hf))
	}

	var resultCache summarizer.Cache
	if cfg.Cache.Address != "" {
		v, err := cache.NewValkey(ctx, cache.Config{
			Address:  cfg.Cache.Address,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TLS:      cfg.Cache.TLS,
		})
		if err != nil {
			logger.Warn("result cache disabled", slog.Any("error", err))
		} else {
			resultCache = v
			s.closers = append(s.closers, closeFunc(v.Close))
			probes = append(probes, monitor.PingProbe("cache", v))
		}
	}

	clf, err := classifier.New(classifier.Options{
		Backend:    cfg.Sentiment.Backend,
		Inference:  posterOrNil(hf),
		HFModel:    cfg.HuggingFace.SentimentModel,
		HugotModel: cfg.Sentiment.HugotModel,
		HugotDir:   cfg.Sentiment.HugotDir,
		OpenAI: classifier.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: cfg.OpenAI.Timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment backend: %w", err)
	}
	if c, ok := clf.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	if b, ok := clf.(monitor.Breaker); ok {
		probes = append(probes, monitor.BreakerProbe("sentiment:"+clf.Name(), b))
	}

	opts := summarizer.Options{
		Backend:   cfg.Summary.Backend,
		Inference: posterOrNil(hf),
		HFModel:   cfg.HuggingFace.SummaryModel,
		OpenAI:    summarizer.LLMConfig(cfg.OpenAI),
		Claude:    summarizer.LLMConfig(cfg.Claude),
		CacheTTL:  cfg.Cache.TTL,
	}
	if resultCache != nil {
		opts.Cache = resultCache
	}
	engine, err := summarizer.New(opts)
	if err != nil {
		return nil, fmt.Errorf("summary backend: %w", err)
	}
	switch strings.ToLower(cfg.Summary.Backend) {
	case summarizer.BackendOpenAI, summarizer.BackendClaude:
		if b, ok := engine.(monitor.Breaker); ok {
			probes = append(probes, monitor.BreakerProbe("summary:"+engine.Name(), b))
		}
	}

	renderer, err := wordcloud.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("word cloud renderer: %w", err)
	}

	svc := services{
		sentiment: sentimentUC.NewService(clf),
		summarize: summarize.NewService(engine,
			summarize.WithConcurrency(cfg.Summary.ChunkConcurrency),
			summarize.WithChunkChars(cfg.Summary.ChunkChars),
			summarize.WithChunkObserver(metrics.ObserveSummaryChunks)),
		wordcloud: wordcloudUC.NewService(renderer),
	}

	s.monitor, err = monitor.New(monitor.Config{
		Schedule:     cfg.Monitor.Schedule,
		Timezone:     cfg.Monitor.Timezone,
		ProbeTimeout: cfg.Monitor.ProbeTimeout,
	}, logger, probes...)
	if err != nil {
		return nil, err
	}

	ipExtractor, err := newIPExtractor(cfg.RateLimit.TrustedProxies, logger)
	if err != nil {
		return nil, err
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, ipExtractor)
	if err := s.monitor.AddJob("ratelimit_cleanup", rateLimitCleanupSchedule, func(context.Context) {
		tracked := limiter.CleanupExpired()
		logger.Debug("rate limiter cleanup", slog.Int("tracked_ips", tracked))
	}); err != nil {
		return nil, err
	}

	logger.Info("backends configured",
		slog.String("sentiment", clf.Name()),
		slog.String("summary", engine.Name()),
		slog.Bool("cache", resultCache != nil),
		slog.Int("probes", len(probes)))

	s.handler = routes(cfg, logger, svc, s.monitor, limiter)
	return s, nil
}

// posterOrNil avoids handing the factories a typed nil.
func posterOrNil(c *inference.Client) interface {
	Post(ctx context.Context, model string, payload any) ([]byte, error)
} {
	if c == nil {
		return nil
	}
	return c
}

func newIPExtractor(trusted []string, logger *slog.Logger) (middleware.IPExtractor, error) {
	if len(trusted) == 0 {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
		return &middleware.RemoteAddrExtractor{}, nil
	}
	prefixes, err := middleware.ParseTrustedProxies(trusted)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	logger.Info("rate limiting: trusted proxy mode enabled", slog.Int("trusted_proxies_count", len(prefixes)))
	return middleware.NewTrustedProxyExtractor(prefixes), nil
}

// routes builds the handler tree.
// Global order: CORS → Request ID → Tracing → Logging → Recovery → Body Limit → Metrics.
// Analysis routes add rate limiting and the request timeout.
func routes(cfg *config.Config, logger *slog.Logger, svc services, backends hhttp.BackendStatus, limiter *middleware.RateLimiter) http.Handler {
	analysis := func(h http.Handler) http.Handler {
		return hhttp.Chain(h, limiter.Middleware, hhttp.Timeout(cfg.HTTP.RequestTimeout))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{Version: cfg.HTTP.Version, Backends: backends})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Backends: backends})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hsentiment.Register(mux, svc.sentiment, analysis)
	hsummary.Register(mux, svc.summarize, analysis)
	hwordcloud.Register(mux, svc.wordcloud, analysis)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORS.AllowedOrigins
	corsConfig.MaxAge = int(cfg.CORS.MaxAge / time.Second)
	corsConfig.Logger = logger

	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Int("max_age", corsConfig.MaxAge))

	return hhttp.Chain(mux,
		hhttp.Middleware(middleware.CORS(corsConfig)),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.LimitRequestBody(cfg.HTTP.MaxBodyBytes),
		hhttp.MetricsMiddleware,
	)
}
