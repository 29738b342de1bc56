package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NewTracerProvider returns the provider spans are exported through. An empty
// OTLPEndpoint disables export and yields a noop provider.
func NewTracerProvider(ctx context.Context, cfg Config) (trace.TracerProvider, error) {
	if cfg.OTLPEndpoint == "" {
		return noop.NewTracerProvider(), nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return NewSDKTracerProvider(cfg, sdktrace.NewBatchSpanProcessor(exporter)), nil
}

// NewSDKTracerProvider builds an SDK provider feeding processor, tagged with
// the service name and environment.
func NewSDKTracerProvider(cfg Config, processor sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	attrs := []attribute.KeyValue{attribute.String("service.name", ServiceName)}
	if cfg.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", cfg.Environment))
	}

	rate := cfg.TraceSampleRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	)
}

// Shutdown flushes pending spans. It is a no-op for the noop provider.
func (o *Observability) Shutdown(ctx context.Context) error {
	sdk, ok := o.TracerProvider.(*sdktrace.TracerProvider)
	if !ok {
		return nil
	}
	if err := sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

func installTracerProvider(tp trace.TracerProvider) trace.Tracer {
	otel.SetTracerProvider(tp)
	return tp.Tracer(ServiceName)
}
