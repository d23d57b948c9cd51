// Package o11y configures the OpenTelemetry tracer provider the simulator
// wraps simulate_validation and its two internal stages with, the way the
// teacher wires otelgin around its HTTP surface.
package o11y

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config names the service reporting spans. NewTracerProvider configures no
// exporter: the provider records spans but drops them on shutdown.
type Config struct {
	ServiceName string
}

// NewTracerProvider builds and registers a global TracerProvider scoped to
// cfg.ServiceName. Callers should defer the returned shutdown func.
func NewTracerProvider(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer is the package-scoped tracer pkg/simulation's spans are created
// from.
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/quantum-warriors/uservalidator/pkg/simulation")
}
