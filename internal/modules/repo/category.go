package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type CategoryRepo interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// Create returns ErrDuplicate when the user already has a category with that name.
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	// EnsureSystem inserts the missing system categories.
	EnsureSystem(ctx context.Context, cats []model.Category) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	var items []model.Category
	err := r.db.WithContext(ctx).
		Where("is_system = ? OR user_id = ?", true, userID).
		Order("is_system DESC, name ASC").
		Find(&items).Error
	return items, err
}

func (r *categoryRepo) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":        c.Name,
			"slug":        c.Slug,
			"description": c.Description,
			"icon":        c.Icon,
			"color":       c.Color,
		}).Error
	return translate(err)
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error
}

func (r *categoryRepo) EnsureSystem(ctx context.Context, cats []model.Category) error {
	for _, c := range cats {
		var n int64
		if err := r.db.WithContext(ctx).
			Model(&model.Category{}).
			Where("is_system = ? AND slug = ?", true, c.Slug).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		c.ID = uuid.New()
		c.IsSystem = true
		c.UserID = nil
		if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}
