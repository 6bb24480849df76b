// Package logging builds the process slog.Logger and carries request-scoped
// loggers through context.
//
// LOG_FORMAT selects json (default), text, or pretty, the last rendered with
// tint for local development. Handlers should log through FromContext so
// lines carry the request id:
//
//	logging.FromContext(ctx).Warn("unknown sentiment label", slog.String("label", raw))
package logging
