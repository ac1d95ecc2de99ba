package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type FavoriteRepo interface {
	// Create returns ErrDuplicate when the favorite already exists.
	Create(ctx context.Context, f *model.Favorite) error
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
	Exists(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
}

type favoriteRepo struct{ db *gorm.DB }

func NewFavoriteRepo(db *gorm.DB) FavoriteRepo {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) Create(ctx context.Context, f *model.Favorite) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *favoriteRepo) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.Favorite{}).Error
}

func (r *favoriteRepo) Exists(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *favoriteRepo) ListProjects(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var items []model.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN project_favorites ON project_favorites.project_id = projects.id").
		Where("project_favorites.user_id = ?", userID).
		Order("project_favorites.created_at DESC").
		Find(&items).Error
	return items, err
}
