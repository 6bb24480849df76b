package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics reports configuration loading for one component.
//
// Metrics (prefix is the component name):
//   - <component>_config_load_timestamp: Unix timestamp of the last load
//   - <component>_config_validation_errors_total{field}: rejected values
//   - <component>_config_source_info{source}: 1 for each source that contributed
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	SourceInfo            *prometheus.GaugeVec
}

// NewConfigMetrics registers the metrics of a component.
// Calling it twice with the same name panics, like any duplicate registration.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		ValidationErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", componentName),
		}, []string{"field"}),
		SourceInfo: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_source_info", componentName),
			Help: fmt.Sprintf("Configuration sources used by %s (dotenv, yaml, env)", componentName),
		}, []string{"source"}),
	}
}

// RecordLoadTimestamp sets the load timestamp to now.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts a rejected field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordSource marks a configuration source as used.
func (m *ConfigMetrics) RecordSource(source string) {
	m.SourceInfo.WithLabelValues(source).Set(1)
}
