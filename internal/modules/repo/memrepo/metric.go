package memrepo

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type metricRepo struct{ s *Store }

func NewMetricRepo(s *Store) repo.MetricRepo { return &metricRepo{s: s} }

func (r *metricRepo) Insert(_ context.Context, points []model.ProjectMetric) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range points {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.RecordedAt.IsZero() {
			p.RecordedAt = r.s.now()
		}
		r.s.metrics[p.ProjectID] = appendCapped(r.s.metrics[p.ProjectID], p, r.s.limits.RowsPerProject)
	}
	return nil
}

func (r *metricRepo) Range(_ context.Context, projectID uuid.UUID, metric string, since time.Time) ([]model.ProjectMetric, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.ProjectMetric
	for _, p := range r.s.metrics[projectID] {
		if p.Metric == metric && !p.RecordedAt.Before(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}
