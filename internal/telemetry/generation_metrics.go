package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// Generation metrics
	generationCounter  metric.Int64Counter
	generationDuration metric.Float64Histogram
	generationFiles    metric.Int64Histogram

	// Deployment metrics
	deploymentCounter metric.Int64Counter
)

// InitGenerationMetrics initializes lifecycle metrics. Until it is called, the Record
// functions are no-ops.
func InitGenerationMetrics() error {
	meter := otel.Meter("saas_factory.lifecycle")

	var err error

	generationCounter, err = meter.Int64Counter(
		"project.generation.count",
		metric.WithDescription("Number of finished generation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	generationDuration, err = meter.Float64Histogram(
		"project.generation.duration",
		metric.WithDescription("Wall time of generation runs"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	// Files per generated artifact
	generationFiles, err = meter.Int64Histogram(
		"project.generation.files",
		metric.WithDescription("Number of files in generated artifacts"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return err
	}

	deploymentCounter, err = meter.Int64Counter(
		"project.deployment.count",
		metric.WithDescription("Number of deployment attempts"),
		metric.WithUnit("{deployment}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordGenerationSuccess records a completed run
func RecordGenerationSuccess(ctx context.Context, provider string, durationMs float64, files int) {
	attrs := metric.WithAttributes(
		attribute.String("status", "success"),
		attribute.String("provider", provider),
	)
	if generationCounter != nil {
		generationCounter.Add(ctx, 1, attrs)
	}
	if generationDuration != nil {
		generationDuration.Record(ctx, durationMs, attrs)
	}
	if generationFiles != nil {
		generationFiles.Record(ctx, int64(files), metric.WithAttributes(attribute.String("provider", provider)))
	}
}

// RecordGenerationError records a failed run. errorType is e.g. timeout, upstream, validation.
func RecordGenerationError(ctx context.Context, provider, errorType string, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String("status", "error"),
		attribute.String("provider", provider),
		attribute.String("error_type", errorType),
	)
	if generationCounter != nil {
		generationCounter.Add(ctx, 1, attrs)
	}
	if generationDuration != nil {
		generationDuration.Record(ctx, durationMs, attrs)
	}
}

func RecordDeployment(ctx context.Context, provider string, ok bool) {
	if deploymentCounter == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	deploymentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}
