package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commentlens/internal/config"
	"commentlens/internal/observability/logging"
	"commentlens/internal/observability/tracing"

	_ "commentlens/docs" // swagger docs
)

// @title           commentlens API
// @version         1.0
// @description     Sentiment analysis, summarization and word clouds for batches of user comments.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)
	shutdownTracing := tracing.Init(cfg.Tracing.SampleRatio)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", slog.Any("error", err))
		os.Exit(1)
	}
	defer srv.Close()

	runServer(ctx, logger, cfg, srv)

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
}

// initLogger builds the process logger from configuration and makes it the default.
func initLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return logger
}

// runServer listens on cfg.HTTP.Addr and serves until ctx is cancelled.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, s *server) {
	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		logger.Error("failed to listen", slog.String("addr", cfg.HTTP.Addr), slog.Any("error", err))
		return
	}
	serve(ctx, logger, cfg, s, ln)
}

// serve handles requests on ln until ctx is cancelled, then stops accepting
// and drains in-flight requests for up to cfg.HTTP.ShutdownGrace. Request
// contexts do not derive from ctx, so a shutdown signal does not abort them.
func serve(ctx context.Context, logger *slog.Logger, cfg *config.Config, s *server, ln net.Listener) {
	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		WriteTimeout:      cfg.HTTP.RequestTimeout + 10*time.Second,
	}

	s.monitor.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", cfg.HTTP.Version))
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := s.monitor.Stop(shutdownCtx); err != nil {
		logger.Warn("monitor did not stop cleanly", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
