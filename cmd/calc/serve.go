package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-calculator/internal/calc"
	"go-calculator/internal/calculator"
	"go-calculator/internal/observability"
	"go-calculator/internal/server"
)

var serveAddr string

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx := cmd.Context()

	// Logger
	if err := observability.InitLogger(cfg.Logging); err != nil {
		return err
	}
	defer observability.SyncLogger()

	// Telemetry
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := telemetryShutdown(flushCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()
	if err != nil {
		return err
	}

	// Sessions
	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}
	store := calculator.NewStore(cfg.GetSessionTTL(), cfg.Server.MaxSessions, observability.Logger)
	handler, err := calculator.NewHandler(store, calc.NewFormatter(tag))
	if err != nil {
		return err
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go store.Run(sweepCtx, cfg.GetSweepInterval())

	// Router
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Server.Addr),
			zap.String("locale", tag.String()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return waitForShutdown(srv, cfg.GetShutdownTimeout())
}

func waitForShutdown(srv *http.Server, timeout time.Duration) error {
	observability.Logger.Info("server shutting down", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
