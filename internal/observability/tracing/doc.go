// Package tracing wires OpenTelemetry into the HTTP server and backend calls.
//
//	shutdown := tracing.Init(1.0)
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "summarize.engine")
//	defer func() { tracing.EndSpan(span, err) }()
package tracing
