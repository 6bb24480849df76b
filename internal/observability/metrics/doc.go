// Package metrics holds the Prometheus collectors of the service and small
// helpers to record analysis outcomes.
//
// All collectors are registered with the default registry and exposed on /metrics.
//
// Example:
//
//	metrics.RecordComments(metrics.OperationSentiment, len(texts))
//	metrics.RecordSentiments(results)
package metrics
