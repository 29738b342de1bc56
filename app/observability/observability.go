package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName is used as the tracer name and the metrics namespace.
const ServiceName = "standings_board"

// Config holds the logging and tracing settings the observability bundle
// needs.
type Config struct {
	Environment     string
	LogLevel        string
	LogFormat       string // text|json
	OTLPEndpoint    string // host:port of an OTLP gRPC collector; empty disables export
	OTLPInsecure    bool
	TraceSampleRate float64
}

// Observability bundles the logger, tracer and metrics shared by modules.
type Observability struct {
	Logger         *slog.Logger
	Tracer         trace.Tracer
	TracerProvider trace.TracerProvider
	Registry       *prometheus.Registry
	Metrics        *Metrics
}

// Init builds the observability bundle writing logs to stderr.
func Init(ctx context.Context, cfg Config) (*Observability, error) {
	return InitWithWriter(ctx, cfg, os.Stderr)
}

// InitWithWriter builds the observability bundle writing logs to w and
// installs its tracer provider as the global one.
func InitWithWriter(ctx context.Context, cfg Config, w io.Writer) (*Observability, error) {
	tp, err := NewTracerProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	return &Observability{
		Logger:         NewLogger(cfg, w),
		Tracer:         installTracerProvider(tp),
		TracerProvider: tp,
		Registry:       registry,
		Metrics:        NewMetrics(registry),
	}, nil
}

// NewLogger returns a slog logger honouring the configured level and format.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Environment != "" {
		logger = logger.With(slog.String("env", cfg.Environment))
	}
	return logger
}

// ParseLevel maps debug|info|warn|error onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
