package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/saas-factory/api/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var (
	meterProvider *sdkmetric.MeterProvider
)

// SetupMetrics initializes OpenTelemetry metrics and the lifecycle instruments.
func SetupMetrics(cfg *config.Config) (*sdkmetric.MeterProvider, error) {
	if !enabled(cfg) {
		return nil, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricExporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(otlpEndpoint(cfg.Telemetry.OtlpEndpoint)),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				metricExporter,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
	)
	otel.SetMeterProvider(meterProvider)

	if err := InitGenerationMetrics(); err != nil {
		return nil, fmt.Errorf("init generation metrics: %w", err)
	}
	return meterProvider, nil
}

// ShutdownMetrics gracefully shuts down the meter provider
func ShutdownMetrics(ctx context.Context) error {
	if meterProvider != nil {
		return meterProvider.Shutdown(ctx)
	}
	return nil
}
