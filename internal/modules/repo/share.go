package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShareRepo interface {
	Get(ctx context.Context, projectID, userID uuid.UUID) (*model.ShareSetting, error)
	GetByTokenHMAC(ctx context.Context, lookup string) (*model.ShareSetting, error)
	// Upsert creates the setting or replaces token and visibility of the existing one.
	Upsert(ctx context.Context, s *model.ShareSetting) error
	Update(ctx context.Context, s *model.ShareSetting) error
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
}

type shareRepo struct{ db *gorm.DB }

func NewShareRepo(db *gorm.DB) ShareRepo {
	return &shareRepo{db: db}
}

func (r *shareRepo) Get(ctx context.Context, projectID, userID uuid.UUID) (*model.ShareSetting, error) {
	var s model.ShareSetting
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *shareRepo) GetByTokenHMAC(ctx context.Context, lookup string) (*model.ShareSetting, error) {
	var s model.ShareSetting
	if err := r.db.WithContext(ctx).Where(&model.ShareSetting{TokenHMAC: lookup}).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *shareRepo) Upsert(ctx context.Context, s *model.ShareSetting) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_hmac", "token_hash_phc", "token_hint", "is_public", "allowed_emails", "updated_at"}),
	}).Create(s).Error
	return translate(err)
}

func (r *shareRepo) Update(ctx context.Context, s *model.ShareSetting) error {
	res := r.db.WithContext(ctx).
		Model(&model.ShareSetting{}).
		Where("project_id = ? AND user_id = ?", s.ProjectID, s.UserID).
		Updates(map[string]interface{}{
			"is_public":      s.IsPublic,
			"allowed_emails": s.AllowedEmails,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shareRepo) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ShareSetting{}).Error
}
