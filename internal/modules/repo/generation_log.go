package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type GenerationLogRepo interface {
	Create(ctx context.Context, l *model.GenerationLog) error
	Finish(ctx context.Context, id uuid.UUID, status model.StepStatus, message string, at time.Time) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.GenerationLog, error)
}

type generationLogRepo struct{ db *gorm.DB }

func NewGenerationLogRepo(db *gorm.DB) GenerationLogRepo {
	return &generationLogRepo{db: db}
}

func (r *generationLogRepo) Create(ctx context.Context, l *model.GenerationLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *generationLogRepo) Finish(ctx context.Context, id uuid.UUID, status model.StepStatus, message string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.GenerationLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"message":      message,
			"completed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *generationLogRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.GenerationLog, error) {
	var items []model.GenerationLog
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("started_at ASC, id ASC").
		Find(&items).Error
	return items, err
}
