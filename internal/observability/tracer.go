// Package observability sets up OpenTelemetry tracing for the game binaries.
package observability

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	DefaultServiceName = "castaway"
	DefaultEndpoint    = "http://localhost:4318"
)

// Config holds the configuration for OpenTelemetry tracing
type Config struct {
	ServiceName    string            `yaml:"service_name"`
	ServiceVersion string            `yaml:"service_version"`
	Environment    string            `yaml:"environment"`
	Enabled        bool              `yaml:"enabled"`
	Endpoint       string            `yaml:"endpoint"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	Insecure       bool              `yaml:"insecure"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    DefaultServiceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       DefaultEndpoint,
		Insecure:       true,
	}
}

// TracerProvider wraps the OpenTelemetry tracer provider with cleanup
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// InitTracing installs a global provider exporting over OTLP/HTTP. When
// tracing is disabled it returns a provider whose tracers do nothing.
func InitTracing(ctx context.Context, config Config) (*TracerProvider, error) {
	if !config.Enabled {
		return &TracerProvider{enabled: false}, nil
	}

	exporter, err := createExporter(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(100),
		),
		sdktrace.WithResource(createResource(config)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return &TracerProvider{provider: tp, enabled: true}, nil
}

// Tracer returns a tracer for the given name
func (tp *TracerProvider) Tracer(name string, options ...trace.TracerOption) trace.Tracer {
	if tp == nil || !tp.enabled {
		return noop.NewTracerProvider().Tracer(name, options...)
	}
	return tp.provider.Tracer(name, options...)
}

// Shutdown flushes pending spans.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || !tp.enabled || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp != nil && tp.enabled
}

func createExporter(ctx context.Context, config Config) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSuffix(strings.TrimSpace(config.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(endpoint + "/v1/traces"),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		otlptracehttp.WithTimeout(10 * time.Second),
	}
	if len(config.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(config.Headers))
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(ctx, opts...)
}

func createResource(config Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		attribute.String("deployment.environment", config.Environment),
	)
}

// ApplyEnv overlays the standard OTEL_* variables onto config.
func ApplyEnv(config Config) Config {
	if v, ok := os.LookupEnv("OTEL_TRACES_ENABLED"); ok {
		config.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		config.Endpoint = v
		config.Insecure = strings.HasPrefix(v, "http://")
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		config.ServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		config.Headers = parseHeaders(v)
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		config.Environment = v
	}
	return config
}

// parseHeaders reads the "k1=v1,k2=v2" form used by OTEL_EXPORTER_OTLP_HEADERS.
func parseHeaders(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
