package backend

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

// SyntheticMetricRepo serves stored points when a project has any, and otherwise an
// hourly series that is stable for a given project and metric.
type SyntheticMetricRepo struct {
	stored repo.MetricRepo
	now    func() time.Time
}

func NewSyntheticMetricRepo(stored repo.MetricRepo) *SyntheticMetricRepo {
	return &SyntheticMetricRepo{stored: stored, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SyntheticMetricRepo) Insert(ctx context.Context, points []model.ProjectMetric) error {
	return r.stored.Insert(ctx, points)
}

func (r *SyntheticMetricRepo) Range(ctx context.Context, projectID uuid.UUID, metric string, since time.Time) ([]model.ProjectMetric, error) {
	points, err := r.stored.Range(ctx, projectID, metric, since)
	if err != nil || len(points) > 0 {
		return points, err
	}
	return SyntheticSeries(projectID, metric, since, r.now()), nil
}

// SyntheticSeries returns one point per hour in [since, until).
func SyntheticSeries(projectID uuid.UUID, metric string, since, until time.Time) []model.ProjectMetric {
	h := fnv.New64a()
	_, _ = h.Write(projectID[:])
	_, _ = h.Write([]byte(metric))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x5eed))

	base, spread := metricShape(metric)
	start := since.Truncate(time.Hour)
	var out []model.ProjectMetric
	for t := start; t.Before(until); t = t.Add(time.Hour) {
		// daily cycle plus noise
		cycle := math.Sin(float64(t.Hour()) / 24 * 2 * math.Pi)
		v := base + spread*(0.5*cycle+rng.Float64()-0.5)
		if metric == model.MetricUptime {
			v = math.Min(100, v)
		}
		out = append(out, model.ProjectMetric{
			ProjectID:  projectID,
			Metric:     metric,
			Value:      math.Round(math.Max(0, v)*100) / 100,
			RecordedAt: t,
		})
	}
	return out
}

func metricShape(metric string) (base, spread float64) {
	switch metric {
	case model.MetricErrors:
		return 3, 4
	case model.MetricResponseTime:
		return 180, 120
	case model.MetricUptime:
		return 99.7, 0.6
	}
	return 240, 200
}
