package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectFilter struct {
	UserID   uuid.UUID
	Status   model.ProjectStatus
	Category string
	Offset   int
	Limit    int
}

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Title             *string
	Description       *string
	Category          *string
	Features          *string
	DesignPreferences *string
	TechRequirements  *string
	IsPublic          *bool

	Status        *model.ProjectStatus
	GeneratedCode *datatypes.JSON
	ErrorMessage  *string
	RepositoryURL *string
	DeploymentURL *string
	CompletedAt   *time.Time
	DeployedAt    *time.Time

	// ClearOutput nulls completed_at and generated_code. Takes precedence over
	// CompletedAt and GeneratedCode.
	ClearOutput bool
}

func (u ProjectUpdate) columns() map[string]interface{} {
	m := map[string]interface{}{}
	if u.Title != nil {
		m["title"] = *u.Title
	}
	if u.Description != nil {
		m["description"] = *u.Description
	}
	if u.Category != nil {
		m["category"] = *u.Category
	}
	if u.Features != nil {
		m["features"] = *u.Features
	}
	if u.DesignPreferences != nil {
		m["design_preferences"] = *u.DesignPreferences
	}
	if u.TechRequirements != nil {
		m["tech_requirements"] = *u.TechRequirements
	}
	if u.IsPublic != nil {
		m["is_public"] = *u.IsPublic
	}
	if u.Status != nil {
		m["status"] = *u.Status
	}
	if u.GeneratedCode != nil {
		m["generated_code"] = *u.GeneratedCode
	}
	if u.ErrorMessage != nil {
		m["error_message"] = *u.ErrorMessage
	}
	if u.RepositoryURL != nil {
		m["repository_url"] = *u.RepositoryURL
	}
	if u.DeploymentURL != nil {
		m["deployment_url"] = *u.DeploymentURL
	}
	if u.CompletedAt != nil {
		m["completed_at"] = *u.CompletedAt
	}
	if u.DeployedAt != nil {
		m["deployed_at"] = *u.DeployedAt
	}
	if u.ClearOutput {
		m["completed_at"] = gorm.Expr("NULL")
		m["generated_code"] = gorm.Expr("NULL")
	}
	return m
}

// Apply copies the set fields onto p. The in-memory backend and the services use it to
// keep a loaded row in sync with what was written.
func (u ProjectUpdate) Apply(p *model.Project) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Features != nil {
		p.Features = *u.Features
	}
	if u.DesignPreferences != nil {
		p.DesignPreferences = *u.DesignPreferences
	}
	if u.TechRequirements != nil {
		p.TechRequirements = *u.TechRequirements
	}
	if u.IsPublic != nil {
		p.IsPublic = *u.IsPublic
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.GeneratedCode != nil {
		p.GeneratedCode = *u.GeneratedCode
	}
	if u.ErrorMessage != nil {
		p.ErrorMessage = *u.ErrorMessage
	}
	if u.RepositoryURL != nil {
		p.RepositoryURL = *u.RepositoryURL
	}
	if u.DeploymentURL != nil {
		p.DeploymentURL = *u.DeploymentURL
	}
	if u.CompletedAt != nil {
		t := *u.CompletedAt
		p.CompletedAt = &t
	}
	if u.DeployedAt != nil {
		t := *u.DeployedAt
		p.DeployedAt = &t
	}
	if u.ClearOutput {
		p.CompletedAt = nil
		p.GeneratedCode = nil
	}
}

func (u ProjectUpdate) Empty() bool { return len(u.columns()) == 0 }

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]model.Project, int64, error)
	Update(ctx context.Context, id uuid.UUID, u ProjectUpdate) error
	// TransitionStatus applies u only if the current status is one of from.
	// It returns false when no row matched.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []model.ProjectStatus, u ProjectUpdate) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, userID uuid.UUID, slug string) (int64, error)
	StatusCounts(ctx context.Context, userID uuid.UUID) (map[model.ProjectStatus]int64, error)
	CategoryCounts(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, f ProjectFilter) ([]model.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{}).Where("user_id = ?", f.UserID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Project
	query := q.Order("created_at DESC, id DESC").Offset(f.Offset)
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	return items, total, query.Find(&items).Error
}

func (r *projectRepo) Update(ctx context.Context, id uuid.UUID, u ProjectUpdate) error {
	cols := u.columns()
	if len(cols) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from []model.ProjectStatus, u ProjectUpdate) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(u.columns())
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Logs, activity, shares and favorites go with the row via ON DELETE CASCADE
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) CountByCategory(ctx context.Context, userID uuid.UUID, slug string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("user_id = ? AND category = ?", userID, slug).
		Count(&n).Error
	return n, err
}

func (r *projectRepo) StatusCounts(ctx context.Context, userID uuid.UUID) (map[model.ProjectStatus]int64, error) {
	var rows []struct {
		Status model.ProjectStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[model.ProjectStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *projectRepo) CategoryCounts(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Category string
		N        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("category, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.N
	}
	return out, nil
}
