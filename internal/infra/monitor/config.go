package monitor

import (
	"fmt"
	"time"

	pkgconfig "commentlens/internal/pkg/config"
)

// Config controls how often backends are probed.
type Config struct {
	// Schedule is a cron expression or descriptor, e.g. "@every 30s".
	Schedule string

	// Timezone is the IANA location the schedule is evaluated in.
	Timezone string

	// ProbeTimeout bounds a single probe.
	ProbeTimeout time.Duration
}

// DefaultConfig probes every 30 seconds.
func DefaultConfig() Config {
	return Config{
		Schedule:     "@every 30s",
		Timezone:     "UTC",
		ProbeTimeout: 5 * time.Second,
	}
}

// Validate checks the schedule, timezone and timeout.
func (c Config) Validate() error {
	if err := pkgconfig.ValidateCronSchedule(c.Schedule); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := pkgconfig.ValidateTimezone(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if err := pkgconfig.ValidateDuration(c.ProbeTimeout, 100*time.Millisecond, time.Minute); err != nil {
		return fmt.Errorf("probe timeout: %w", err)
	}
	return nil
}
