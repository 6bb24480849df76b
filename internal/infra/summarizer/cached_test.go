package summarizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"commentlens/internal/usecase/summarize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingEngine struct {
	calls int
	res   summarize.Result
	err   error
}

func (c *countingEngine) Summarize(context.Context, string, summarize.Params) (summarize.Result, error) {
	c.calls++
	return c.res, c.err
}

func (c *countingEngine) Name() string { return "counting" }

func newTestCached(e summarize.Engine, c Cache) (*Cached, *mockMetricsRecorder) {
	rec := &mockMetricsRecorder{}
	cached := NewCached(e, c, time.Hour)
	cached.metricsRecorder = rec
	return cached, rec
}

func TestCached_HitAfterMiss(t *testing.T) {
	engine := &countingEngine{res: summarize.Output("cached summary")}
	mem := newMemCache()
	c, rec := newTestCached(engine, mem)
	p := summarize.ParamsFor(180)

	first, err := c.Summarize(context.Background(), "input", p)
	require.NoError(t, err)
	second, err := c.Summarize(context.Background(), "input", p)
	require.NoError(t, err)

	assert.Equal(t, summarize.Output("cached summary"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, map[string]int{"miss": 1, "hit": 1}, rec.cache)
	for _, ttl := range mem.ttls {
		assert.Equal(t, time.Hour, ttl)
	}
	assert.Equal(t, "counting", c.Name())
}

func TestCached_KeyIncludesParams(t *testing.T) {
	engine := &countingEngine{res: summarize.Output("s")}
	c, _ := newTestCached(engine, newMemCache())

	_, _ = c.Summarize(context.Background(), "input", summarize.ParamsFor(180))
	_, _ = c.Summarize(context.Background(), "input", summarize.ParamsFor(300))

	assert.Equal(t, 2, engine.calls)
}

func TestCached_NoOutputIsNotStored(t *testing.T) {
	engine := &countingEngine{res: summarize.NoOutput()}
	mem := newMemCache()
	c, _ := newTestCached(engine, mem)

	_, _ = c.Summarize(context.Background(), "input", summarize.ParamsFor(0))
	_, _ = c.Summarize(context.Background(), "input", summarize.ParamsFor(0))

	assert.Equal(t, 2, engine.calls)
	assert.Empty(t, mem.data)
}

func TestCached_EngineErrorPropagates(t *testing.T) {
	boom := errors.New("down")
	c, _ := newTestCached(&countingEngine{err: boom}, newMemCache())

	_, err := c.Summarize(context.Background(), "input", summarize.ParamsFor(0))

	assert.ErrorIs(t, err, boom)
}

func TestCached_CacheFailuresAreIgnored(t *testing.T) {
	engine := &countingEngine{res: summarize.Output("fresh")}
	mem := newMemCache()
	mem.getErr = errors.New("valkey down")
	mem.setErr = errors.New("valkey down")
	c, _ := newTestCached(engine, mem)

	got, err := c.Summarize(context.Background(), "input", summarize.ParamsFor(0))

	require.NoError(t, err)
	assert.Equal(t, summarize.Output("fresh"), got)
}

func TestCacheKey(t *testing.T) {
	p := summarize.ParamsFor(180)
	k1 := cacheKey("bart", "text", p)

	assert.Equal(t, k1, cacheKey("bart", "text", p))
	assert.NotEqual(t, k1, cacheKey("claude", "text", p))
	assert.NotEqual(t, k1, cacheKey("bart", "text!", p))
	assert.Contains(t, k1, "summary:bart:180:60:true:")
}

type breakerEngine struct {
	countingEngine
	open bool
}

func (b *breakerEngine) IsOpen() bool { return b.open }

func TestCached_IsOpenForwards(t *testing.T) {
	open, _ := newTestCached(&breakerEngine{open: true}, newMemCache())
	plain, _ := newTestCached(&countingEngine{}, newMemCache())

	assert.True(t, open.IsOpen())
	assert.False(t, plain.IsOpen())
}
