// Package observability groups the logging, metrics and tracing setup of the service.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP traffic and analysis outcomes
//   - tracing: OpenTelemetry server spans and backend call spans
package observability
