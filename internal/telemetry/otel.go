package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceVersion is reported on every span and metric.
const ServiceVersion = "0.1.0"

// TraceIDKey is the gin context key holding the current trace id.
const TraceIDKey = "trace_id"

var (
	tracerProvider *sdktrace.TracerProvider
)

func enabled(cfg *config.Config) bool {
	return cfg.Telemetry.Enabled && cfg.Telemetry.OtlpEndpoint != ""
}

// otlpEndpoint strips the scheme; the grpc exporters expect host:port.
func otlpEndpoint(raw string) string {
	raw = strings.TrimPrefix(raw, "http://")
	raw = strings.TrimPrefix(raw, "https://")
	return strings.TrimRight(raw, "/")
}

func newResource(cfg *config.Config) (*resource.Resource, error) {
	return resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.App.Name),
			semconv.ServiceVersion(ServiceVersion),
			semconv.DeploymentEnvironment(cfg.App.Env),
		),
	)
}

// samplerFor clamps ratio into (0, 1]; anything outside means sample everything.
func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1.0 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// SetupTracing initializes OpenTelemetry tracing. It returns nil when telemetry is off.
func SetupTracing(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	if !enabled(cfg) {
		return nil, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint(cfg.Telemetry.OtlpEndpoint)),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.Telemetry.SampleRatio)),
	)
	otel.SetTracerProvider(tracerProvider)

	// Propagate context to the generator and deployment providers
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider, nil
}

// Shutdown gracefully shuts down the tracer provider
func Shutdown(ctx context.Context) error {
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}

// GinMiddleware instruments /api/ routes only. Health checks and swagger stay untraced.
func GinMiddleware(serviceName string) gin.HandlerFunc {
	otelMiddleware := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			otelMiddleware(c)
			return
		}
		c.Next()
	}
}

// TraceIDMiddleware exposes the trace id as X-Trace-Id and under TraceIDKey.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			traceID := span.SpanContext().TraceID().String()
			c.Header("X-Trace-Id", traceID)
			c.Set(TraceIDKey, traceID)
		}
		c.Next()
	}
}
