package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-calculator/internal/calculator"
	"go-calculator/internal/config"
	"go-calculator/internal/observability"
)

type shutdownFunc func(context.Context) error

// initTelemetry installs the OTLP trace, metric and log pipelines when
// enabled and registers the calculator instruments either way. The returned
// func flushes and stops every pipeline that was started.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (shutdownFunc, error) {
	var shutdowns []shutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if !cfg.OTLPEnabled {
		observability.Logger.Info("OTLP export disabled")
		return shutdown, calculator.InitMetrics()
	}

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
	if err != nil {
		return shutdown, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	// Metrics
	metricShutdown, err := initMetrics(ctx, cfg.ServiceName)
	if err != nil {
		return shutdown, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	// Logs
	logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
	if err != nil {
		return shutdown, err
	}
	shutdowns = append(shutdowns, logShutdown)

	observability.Logger.Info("OTLP export enabled", zap.String("service", cfg.ServiceName))
	return shutdown, nil
}

// initMetrics initialises the meter provider and the calculator's metric
// instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context, serviceName string) (shutdownFunc, error) {
	shutdown, err := observability.InitMetrics(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
