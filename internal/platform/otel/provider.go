// Package otel configures OpenTelemetry tracing for benchboard commands.
package otel

import (
	"context"
	"strings"

	"github.com/louisbranch/benchboard/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects the trace exporter.
type Config struct {
	Endpoint string `env:"BENCHBOARD_OTEL_ENDPOINT"`
	// Enabled is "false" to switch tracing off even with an endpoint set.
	Enabled string `env:"BENCHBOARD_OTEL_ENABLED"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	if strings.EqualFold(strings.TrimSpace(c.Enabled), "false") {
		return false
	}
	return strings.TrimSpace(c.Endpoint) != ""
}

// Setup reads Config from the environment and initialises tracing for the
// given service. Tracing is opt-in: without an endpoint the returned shutdown
// is a no-op and no global provider is registered.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig initialises tracing from an explicit Config. The returned
// shutdown flushes pending spans and should be deferred by the caller.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (func(context.Context) error, error) {
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func noop(context.Context) error { return nil }
