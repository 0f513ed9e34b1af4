// Package tracing richtet den OpenTelemetry-TracerProvider ein.
//
// TRACING_EXPORTER=none lässt den globalen Noop-Provider stehen, stdout
// schreibt Spans auf die Standardausgabe, otlp exportiert per OTLP/HTTP an
// OTEL_EXPORTER_OTLP_ENDPOINT.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"screen-ai/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Shutdown leert ausstehende Spans und beendet den Provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init registriert den Provider global und liefert die Shutdown-Funktion.
func Init(ctx context.Context, cfg *config.Config, log *zap.Logger) (Shutdown, error) {
	return initWithWriter(ctx, cfg, log, os.Stdout)
}

func initWithWriter(ctx context.Context, cfg *config.Config, log *zap.Logger, w io.Writer) (Shutdown, error) {
	exporter, err := newExporter(ctx, cfg, w)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		log.Info("Tracing disabled")
		return noop, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.AppName)))
	if err != nil {
		return nil, fmt.Errorf("tracing resource: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("Tracing enabled", zap.String("exporter", cfg.TracingExporter))
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg *config.Config, w io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.TracingExporter {
	case "", "none":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case "otlp":
		var opts []otlptracehttp.Option
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported TRACING_EXPORTER %q", cfg.TracingExporter)
	}
}
