package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"commentlens/internal/usecase/summarize"
)

// Cache is a string key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Cached memoizes usable results of an engine. Cache failures never fail a
// summary; they are logged and the engine is called directly.
type Cached struct {
	engine          summarize.Engine
	cache           Cache
	ttl             time.Duration
	metricsRecorder SummaryMetricsRecorder
}

// NewCached wraps engine with cache.
func NewCached(engine summarize.Engine, cache Cache, ttl time.Duration) *Cached {
	return &Cached{
		engine:          engine,
		cache:           cache,
		ttl:             ttl,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Name returns the wrapped engine's name.
func (c *Cached) Name() string { return c.engine.Name() }

// IsOpen reports the wrapped engine's circuit breaker state, if it has one.
func (c *Cached) IsOpen() bool {
	if b, ok := c.engine.(interface{ IsOpen() bool }); ok {
		return b.IsOpen()
	}
	return false
}

// Summarize serves from cache when possible. Only OK results are stored.
func (c *Cached) Summarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	key := cacheKey(c.engine.Name(), input, p)

	if s, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "summary cache read failed", slog.Any("error", err))
	} else if ok {
		c.metricsRecorder.RecordCache("hit")
		return summarize.Output(s), nil
	}
	c.metricsRecorder.RecordCache("miss")

	res, err := c.engine.Summarize(ctx, input, p)
	if err != nil || !res.OK {
		return res, err
	}

	if err := c.cache.Set(ctx, key, res.Text, c.ttl); err != nil {
		slog.WarnContext(ctx, "summary cache write failed", slog.Any("error", err))
	}
	return res, nil
}

func cacheKey(engine, input string, p summarize.Params) string {
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("summary:%s:%d:%d:%t:%s",
		engine, p.MaxLength, p.MinLength, p.Deterministic, hex.EncodeToString(sum[:]))
}
