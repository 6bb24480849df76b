// Package monitor runs backend health probes and housekeeping jobs on a cron
// schedule and keeps the latest probe results for the health endpoints.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"commentlens/internal/observability/metrics"
)

// Probe statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// probeJob is the job name used for the probe run in metrics and logs.
const probeJob = "backend_probes"

// CheckResult is the outcome of the most recent probe of one backend.
type CheckResult struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Monitor probes backends on a schedule.
type Monitor struct {
	cfg    Config
	logger *slog.Logger
	cron   *cron.Cron
	probes []Probe

	mu      sync.RWMutex
	results map[string]CheckResult
}

// New validates cfg and schedules the probe job. Call Start to begin.
func New(cfg Config, logger *slog.Logger, probes ...Probe) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	m := &Monitor{
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(cron.WithLocation(loc)),
		probes:  probes,
		results: make(map[string]CheckResult, len(probes)),
	}
	if err := m.AddJob(probeJob, cfg.Schedule, m.RunOnce); err != nil {
		return nil, err
	}
	return m, nil
}

// AddJob schedules fn under name. Each run gets a context bounded by ProbeTimeout.
func (m *Monitor) AddJob(name, schedule string, fn func(ctx context.Context)) error {
	_, err := m.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ProbeTimeout)
		defer cancel()
		m.run(ctx, name, fn)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	return nil
}

func (m *Monitor) run(ctx context.Context, name string, fn func(ctx context.Context)) {
	start := time.Now()
	defer func() {
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		lastRunTimestamp.WithLabelValues(name).SetToCurrentTime()
		if r := recover(); r != nil {
			jobRunsTotal.WithLabelValues(name, "failure").Inc()
			m.logger.Error("scheduled job panicked",
				slog.String("job", name),
				slog.Any("panic", r))
			return
		}
		jobRunsTotal.WithLabelValues(name, "success").Inc()
	}()
	fn(ctx)
}

// RunOnce probes every backend concurrently and stores the results.
func (m *Monitor) RunOnce(ctx context.Context) {
	results := make([]CheckResult, len(m.probes))
	var wg sync.WaitGroup
	for i, p := range m.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = m.check(ctx, p)
		}()
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.probes {
		prev, seen := m.results[p.Name()]
		cur := results[i]
		m.results[p.Name()] = cur
		metrics.SetBackendUp(p.Name(), cur.Status == StatusHealthy)

		if seen && prev.Status == cur.Status {
			continue
		}
		if cur.Status == StatusHealthy {
			m.logger.Info("backend healthy", slog.String("backend", p.Name()))
		} else {
			m.logger.Warn("backend unhealthy",
				slog.String("backend", p.Name()),
				slog.String("reason", cur.Message))
		}
	}
}

func (m *Monitor) check(ctx context.Context, p Probe) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()

	res := CheckResult{Status: StatusHealthy, CheckedAt: time.Now().UTC()}
	if err := p.Check(ctx); err != nil {
		res.Status = StatusUnhealthy
		res.Message = err.Error()
	}
	return res
}

// Start probes once synchronously, then starts the scheduler.
func (m *Monitor) Start(ctx context.Context) {
	m.RunOnce(ctx)
	m.cron.Start()
	m.logger.Info("monitor started",
		slog.String("schedule", m.cfg.Schedule),
		slog.Int("probes", len(m.probes)))
}

// Stop stops the scheduler and waits for running jobs until ctx expires.
func (m *Monitor) Stop(ctx context.Context) error {
	done := m.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the latest results keyed by backend name.
func (m *Monitor) Snapshot() map[string]CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]CheckResult, len(m.results))
	for k, v := range m.results {
		out[k] = v
	}
	return out
}

// Healthy reports whether every probed backend passed its latest check.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.results {
		if r.Status != StatusHealthy {
			return false
		}
	}
	return true
}
