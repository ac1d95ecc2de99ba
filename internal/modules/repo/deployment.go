package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type DeploymentRepo interface {
	Create(ctx context.Context, d *model.Deployment) error
	Update(ctx context.Context, d *model.Deployment) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Deployment, error)
}

type deploymentRepo struct{ db *gorm.DB }

func NewDeploymentRepo(db *gorm.DB) DeploymentRepo {
	return &deploymentRepo{db: db}
}

func (r *deploymentRepo) Create(ctx context.Context, d *model.Deployment) error {
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *deploymentRepo) Update(ctx context.Context, d *model.Deployment) error {
	return r.db.WithContext(ctx).
		Model(&model.Deployment{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"status":         d.Status,
			"url":            d.URL,
			"repository_url": d.RepositoryURL,
			"external_id":    d.ExternalID,
			"error_message":  d.ErrorMessage,
		}).Error
}

func (r *deploymentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Deployment, error) {
	var items []model.Deployment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
