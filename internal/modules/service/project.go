package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/pkg/paging"
	"github.com/saas-factory/api/internal/pkg/progress"
	"go.uber.org/zap"
)

type ProjectService interface {
	List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error)
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectDetail, error)
	Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
	Clone(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error)
}

type projectService struct {
	resolver *backend.Resolver
	rec      recorder
	log      *zap.Logger
}

func NewProjectService(resolver *backend.Resolver, log *zap.Logger) ProjectService {
	return &projectService{resolver: resolver, rec: recorder{log: log}, log: log}
}

type ListProjectsInput struct {
	UserID   uuid.UUID
	Page     paging.Page
	Status   string
	Category string
}

type ListProjectsOutput struct {
	Items []model.Project `json:"items"`
	Meta  paging.Meta     `json:"meta"`
}

func (s *projectService) List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	status := model.ProjectStatus(in.Status)
	if status != "" && !status.Valid() {
		return nil, newError(ErrValidation, "unknown status %q", in.Status)
	}
	page := in.Page.Normalize()
	items, total, err := s.resolver.For(ctx).Projects().List(ctx, repo.ProjectFilter{
		UserID:   in.UserID,
		Status:   status,
		Category: in.Category,
		Offset:   page.Offset(),
		Limit:    page.Limit(),
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Project{}
	}
	return &ListProjectsOutput{Items: items, Meta: paging.NewMeta(page, total)}, nil
}

type CreateProjectInput struct {
	UserID            uuid.UUID
	Title             string
	Description       string
	Category          string
	Features          string
	DesignPreferences string
	TechRequirements  string
	IsPublic          bool
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, newError(ErrValidation, "title is required")
	}
	b := s.resolver.For(ctx)

	category, err := resolveCategory(ctx, b, in.UserID, in.Category)
	if err != nil {
		return nil, err
	}

	p := &model.Project{
		UserID:            in.UserID,
		Title:             title,
		Description:       in.Description,
		Category:          category,
		Features:          in.Features,
		DesignPreferences: in.DesignPreferences,
		TechRequirements:  in.TechRequirements,
		IsPublic:          in.IsPublic,
		Status:            model.ProjectStatusDraft,
	}
	if err := b.Projects().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.rec.record(ctx, b, p.ID, in.UserID, model.ActionProjectCreated, fmt.Sprintf("Created project %q", p.Title), nil)
	return p, nil
}

// resolveCategory defaults to "other" and rejects slugs the caller cannot see.
func resolveCategory(ctx context.Context, b backend.DataBackend, userID uuid.UUID, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "other", nil
	}
	cats, err := b.Categories().ListForUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	for _, c := range cats {
		if c.Slug == slug {
			return slug, nil
		}
	}
	return "", newError(ErrValidation, "unknown category %q", slug)
}

type ProjectDetail struct {
	Project    *model.Project        `json:"project"`
	Logs       []model.GenerationLog `json:"generation_logs"`
	Progress   int                   `json:"progress"`
	IsFavorite bool                  `json:"is_favorite"`
	IsOwner    bool                  `json:"is_owner"`
}

func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectDetail, error) {
	b := s.resolver.For(ctx)
	p, err := loadReadable(ctx, b, projectID, userID)
	if err != nil {
		return nil, err
	}
	logs, err := b.Logs().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list generation logs: %w", err)
	}
	if logs == nil {
		logs = []model.GenerationLog{}
	}
	fav, err := b.Favorites().Exists(ctx, projectID, userID)
	if err != nil {
		s.log.Warn("favorite lookup failed", zap.String("project_id", projectID.String()), zap.Error(err))
	}
	return &ProjectDetail{
		Project:    p,
		Logs:       logs,
		Progress:   progress.Percent(logs),
		IsFavorite: fav,
		IsOwner:    b.Demo() || p.UserID == userID,
	}, nil
}

// UpdateProjectInput is partial: nil fields are kept.
type UpdateProjectInput struct {
	UserID            uuid.UUID
	ProjectID         uuid.UUID
	Title             *string
	Description       *string
	Category          *string
	Features          *string
	DesignPreferences *string
	TechRequirements  *string
	IsPublic          *bool
}

func (s *projectService) Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error) {
	b := s.resolver.For(ctx)
	p, err := loadOwned(ctx, b, in.ProjectID, in.UserID)
	if err != nil {
		return nil, err
	}
	if p.Status == model.ProjectStatusGenerating {
		return nil, newError(ErrConflict, "project cannot be edited while it is generating")
	}

	upd := repo.ProjectUpdate{
		Description:       in.Description,
		Features:          in.Features,
		DesignPreferences: in.DesignPreferences,
		TechRequirements:  in.TechRequirements,
		IsPublic:          in.IsPublic,
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, newError(ErrValidation, "title cannot be empty")
		}
		upd.Title = &title
	}
	if in.Category != nil {
		slug, err := resolveCategory(ctx, b, in.UserID, *in.Category)
		if err != nil {
			return nil, err
		}
		upd.Category = &slug
	}
	if upd.Empty() {
		return p, nil
	}

	if err := b.Projects().Update(ctx, p.ID, upd); err != nil {
		return nil, notFoundOr(err, "project")
	}
	upd.Apply(p)
	p.UpdatedAt = time.Now().UTC()

	s.rec.record(ctx, b, p.ID, in.UserID, model.ActionProjectUpdated, "Updated project details", map[string]any{
		"fields": changedFields(upd),
	})
	return p, nil
}

func changedFields(u repo.ProjectUpdate) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(u.Title != nil, "title")
	add(u.Description != nil, "description")
	add(u.Category != nil, "category")
	add(u.Features != nil, "features")
	add(u.DesignPreferences != nil, "design_preferences")
	add(u.TechRequirements != nil, "tech_requirements")
	add(u.IsPublic != nil, "is_public")
	return out
}

func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	b := s.resolver.For(ctx)
	p, err := b.Projects().Get(ctx, projectID)
	if err != nil {
		return notFoundOr(err, "project")
	}
	// deletion is owner-only even in demo mode
	if p.UserID != userID {
		return newError(ErrPermissionDenied, "only the owner can delete this project")
	}
	if err := b.Projects().Delete(ctx, projectID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete project: %w", err)
	}
	s.log.Info("project deleted", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))
	return nil
}

func (s *projectService) Clone(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	b := s.resolver.For(ctx)
	src, err := loadReadable(ctx, b, projectID, userID)
	if err != nil {
		return nil, err
	}

	clone := &model.Project{
		UserID:            userID,
		Title:             src.Title + " (Copy)",
		Description:       src.Description,
		Category:          src.Category,
		Features:          src.Features,
		DesignPreferences: src.DesignPreferences,
		TechRequirements:  src.TechRequirements,
		Status:            model.ProjectStatusDraft,
		ClonedFrom:        &src.ID,
	}
	if src.HasCode() {
		clone.GeneratedCode = append(clone.GeneratedCode[:0:0], src.GeneratedCode...)
		clone.Status = model.ProjectStatusCompleted
		now := time.Now().UTC()
		clone.CompletedAt = &now
	}
	// a private category of another user is not visible to the cloner
	if _, err := resolveCategory(ctx, b, userID, clone.Category); err != nil {
		clone.Category = "other"
	}

	if err := b.Projects().Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("create clone: %w", err)
	}
	s.rec.record(ctx, b, clone.ID, userID, model.ActionProjectCloned, fmt.Sprintf("Cloned from %q", src.Title), map[string]any{
		"source_project_id": src.ID.String(),
	})
	return clone, nil
}
