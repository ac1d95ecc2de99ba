package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/gorm"
)

type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// ActivityRepo is append-only: there is deliberately no update or delete.
type ActivityRepo interface {
	Create(ctx context.Context, a *model.Activity) error
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]model.Activity, int64, error)
	CountByActionSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int64, error)
	DailyCounts(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyCount, error)
}

type activityRepo struct{ db *gorm.DB }

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, a *model.Activity) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *activityRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]model.Activity, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Activity{}).Where("project_id = ?", projectID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Activity
	query := q.Order("created_at DESC, id DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return items, total, query.Find(&items).Error
}

func (r *activityRepo) CountByActionSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Action string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Select("action, COUNT(*) AS n").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Action] = row.N
	}
	return out, nil
}

func (r *activityRepo) DailyCounts(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyCount, error) {
	var rows []DailyCount
	err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Select("to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
