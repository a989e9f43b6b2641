package app

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "modulegrid"

// tracing owns the tracer provider for one App.
type tracing struct {
	provider trace.TracerProvider
	sdk      *sdktrace.TracerProvider
}

// newTracing returns a no-op provider unless enabled. When enabled, spans are
// written to w as JSON and the provider becomes the global one, so packages
// that hold a global tracer report to it too.
func newTracing(enabled bool, w io.Writer) (*tracing, error) {
	if !enabled {
		return &tracing{provider: noop.NewTracerProvider()}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return &tracing{provider: provider, sdk: provider}, nil
}

// Shutdown flushes pending spans.
func (t *tracing) Shutdown(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}
	return t.sdk.Shutdown(ctx)
}
