package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type TemplateRepo interface {
	Create(ctx context.Context, t *model.Template) error
	Get(ctx context.Context, id uuid.UUID) (*model.Template, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type templateRepo struct{ db *gorm.DB }

func NewTemplateRepo(db *gorm.DB) TemplateRepo {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, t *model.Template) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *templateRepo) Get(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	var t model.Template
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *templateRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
