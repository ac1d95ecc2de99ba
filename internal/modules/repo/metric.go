package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type MetricRepo interface {
	Insert(ctx context.Context, points []model.ProjectMetric) error
	Range(ctx context.Context, projectID uuid.UUID, metric string, since time.Time) ([]model.ProjectMetric, error)
}

type metricRepo struct{ db *gorm.DB }

func NewMetricRepo(db *gorm.DB) MetricRepo {
	return &metricRepo{db: db}
}

func (r *metricRepo) Insert(ctx context.Context, points []model.ProjectMetric) error {
	if len(points) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(points, 500).Error
}

func (r *metricRepo) Range(ctx context.Context, projectID uuid.UUID, metric string, since time.Time) ([]model.ProjectMetric, error) {
	var items []model.ProjectMetric
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND metric = ? AND recorded_at >= ?", projectID, metric, since).
		Order("recorded_at ASC").
		Find(&items).Error
	return items, err
}
