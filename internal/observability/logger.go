package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-calculator/internal/config"
)

// Logger is the process-wide logger. It is a no-op until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger builds Logger from cfg. An empty cfg.File logs to stderr.
func InitLogger(cfg config.LoggingConfig) error {
	logger, err := NewLogger(cfg, "stderr")
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

// NewLogger builds a zap logger from cfg, writing to fallback when cfg.File is
// empty. A fallback of "" discards output.
func NewLogger(cfg config.LoggingConfig, fallback string) (*zap.Logger, error) {
	output := cfg.File
	if output == "" {
		output = fallback
	}
	if output == "" {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{output}
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself is attached as zap.Any("context", ctx): the otelzap bridge picks up
// any field holding a context.Context and uses it when emitting, so exported
// OTLP log records carry the native TraceID/SpanID. The string fields keep
// stdout JSON greppable without an OTel-aware tool.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
