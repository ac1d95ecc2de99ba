package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
)

type MonitoringService interface {
	Series(ctx context.Context, in SeriesInput) (*SeriesOutput, error)
	Ingest(ctx context.Context, in IngestInput) (int, error)
}

type monitoringService struct {
	resolver *backend.Resolver
	now      func() time.Time
}

func NewMonitoringService(resolver *backend.Resolver) MonitoringService {
	return &monitoringService{resolver: resolver, now: func() time.Time { return time.Now().UTC() }}
}

type SeriesInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Metric    string
	TimeRange string
}

type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type SeriesSummary struct {
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Latest float64 `json:"latest"`
}

type SeriesOutput struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Metric    string        `json:"metric"`
	TimeRange string        `json:"time_range"`
	Interval  string        `json:"interval"`
	Points    []SeriesPoint `json:"points"`
	Summary   SeriesSummary `json:"summary"`
}

// monitoringRanges maps a range to its length and bucket size.
var monitoringRanges = map[string]struct {
	span, bucket time.Duration
	label        string
}{
	"24h": {24 * time.Hour, time.Hour, "hour"},
	"7d":  {7 * 24 * time.Hour, 24 * time.Hour, "day"},
	"30d": {30 * 24 * time.Hour, 24 * time.Hour, "day"},
}

func (s *monitoringService) Series(ctx context.Context, in SeriesInput) (*SeriesOutput, error) {
	metric := in.Metric
	if metric == "" {
		metric = model.MetricRequests
	}
	if !model.ValidMetric(metric) {
		return nil, newError(ErrValidation, "unknown metric %q", in.Metric)
	}
	tr := in.TimeRange
	if tr == "" {
		tr = "24h"
	}
	rng, ok := monitoringRanges[tr]
	if !ok {
		return nil, newError(ErrValidation, "unsupported time range %q", in.TimeRange)
	}

	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, in.ProjectID, in.UserID); err != nil {
		return nil, err
	}
	since := s.now().Add(-rng.span)
	raw, err := b.Metrics().Range(ctx, in.ProjectID, metric, since)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}

	points := bucketize(raw, rng.bucket, metric)
	return &SeriesOutput{
		ProjectID: in.ProjectID,
		Metric:    metric,
		TimeRange: tr,
		Interval:  rng.label,
		Points:    points,
		Summary:   summarize(points),
	}, nil
}

// bucketize sums counters and averages gauges per bucket. raw must be ordered by time.
func bucketize(raw []model.ProjectMetric, bucket time.Duration, metric string) []SeriesPoint {
	sum := metric == model.MetricRequests || metric == model.MetricErrors
	out := []SeriesPoint{}
	var n int
	for _, m := range raw {
		ts := m.RecordedAt.UTC().Truncate(bucket)
		if len(out) == 0 || !out[len(out)-1].Timestamp.Equal(ts) {
			if !sum && n > 0 {
				out[len(out)-1].Value /= float64(n)
			}
			out = append(out, SeriesPoint{Timestamp: ts})
			n = 0
		}
		out[len(out)-1].Value += m.Value
		n++
	}
	if !sum && n > 0 {
		out[len(out)-1].Value /= float64(n)
	}
	for i := range out {
		out[i].Value = math.Round(out[i].Value*100) / 100
	}
	return out
}

func summarize(points []SeriesPoint) SeriesSummary {
	if len(points) == 0 {
		return SeriesSummary{}
	}
	s := SeriesSummary{Min: math.Inf(1), Max: math.Inf(-1)}
	var total float64
	for _, p := range points {
		total += p.Value
		s.Min = math.Min(s.Min, p.Value)
		s.Max = math.Max(s.Max, p.Value)
	}
	s.Avg = math.Round(total/float64(len(points))*100) / 100
	s.Latest = points[len(points)-1].Value
	return s
}

type IngestPoint struct {
	Metric     string
	Value      float64
	RecordedAt time.Time
}

type IngestInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Points    []IngestPoint
}

func (s *monitoringService) Ingest(ctx context.Context, in IngestInput) (int, error) {
	if len(in.Points) == 0 {
		return 0, newError(ErrValidation, "at least one metric point is required")
	}
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, in.ProjectID, in.UserID); err != nil {
		return 0, err
	}
	now := s.now()
	rows := make([]model.ProjectMetric, 0, len(in.Points))
	for _, p := range in.Points {
		if !model.ValidMetric(p.Metric) {
			return 0, newError(ErrValidation, "unknown metric %q", p.Metric)
		}
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return 0, newError(ErrValidation, "metric value must be a finite number")
		}
		at := p.RecordedAt
		if at.IsZero() {
			at = now
		}
		rows = append(rows, model.ProjectMetric{ProjectID: in.ProjectID, Metric: p.Metric, Value: p.Value, RecordedAt: at.UTC()})
	}
	if err := b.Metrics().Insert(ctx, rows); err != nil {
		return 0, fmt.Errorf("insert metrics: %w", err)
	}
	return len(rows), nil
}
