// Package telemetry installs the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"

	tracesPath = "/v1/traces"
)

// Config holds configuration for tracing.
type Config struct {
	Enabled        bool
	Exporter       string
	OTLPEndpoint   string
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Writer receives stdout exporter output; defaults to os.Stdout.
	Writer io.Writer
}

// Provider owns the installed tracer provider.
type Provider struct {
	Shutdown func(context.Context) error
	tracer   trace.TracerProvider
}

// TracerProvider returns the provider installed by InitTelemetry.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tracer
}

// InitTelemetry installs a global tracer provider. When tracing is disabled
// a no-op provider is installed so instrumented code never needs to check.
func InitTelemetry(ctx context.Context, cfg Config, logger *logrus.Logger) (*Provider, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		logger.Debug("Tracing disabled")
		return &Provider{Shutdown: func(context.Context) error { return nil }, tracer: tp}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.WithFields(logrus.Fields{
		"exporter":     cfg.Exporter,
		"service_name": cfg.ServiceName,
	}).Info("Tracing initialized")

	return &Provider{Shutdown: tp.Shutdown, tracer: tp}, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout, "":
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exp, nil

	case ExporterOTLP:
		hostport, urlPath, insecure, _, err := normalizeOTLPEndpoint(cfg.OTLPEndpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(hostport),
			otlptracehttp.WithURLPath(urlPath),
		}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		return exp, nil

	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
}

// normalizeOTLPEndpoint splits a collector base URL into the pieces the
// OTLP/HTTP exporter wants, appending /v1/traces unless already present.
func normalizeOTLPEndpoint(endpoint string) (hostport, urlPath string, insecure bool, resolved string, err error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", "", false, "", fmt.Errorf("invalid OTLPEndpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", false, "", fmt.Errorf("invalid OTLPEndpoint %q: %w", endpoint, errors.New("scheme must be http or https"))
	}
	if u.Host == "" {
		return "", "", false, "", fmt.Errorf("invalid OTLPEndpoint %q: %w", endpoint, errors.New("missing host"))
	}

	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, tracesPath) {
		path += tracesPath
	}
	resolved = u.Scheme + "://" + u.Host + path
	return u.Host, path, u.Scheme == "http", resolved, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
