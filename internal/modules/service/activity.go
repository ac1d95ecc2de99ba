package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/pkg/paging"
	"go.uber.org/zap"
)

type ActivityService interface {
	List(ctx context.Context, in ListActivityInput) (*ListActivityOutput, error)
}

type activityService struct {
	resolver *backend.Resolver
	log      *zap.Logger
}

func NewActivityService(resolver *backend.Resolver, log *zap.Logger) ActivityService {
	return &activityService{resolver: resolver, log: log}
}

type ListActivityInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Page      paging.Page
}

type ListActivityOutput struct {
	Items []model.Activity `json:"items"`
	Meta  paging.Meta      `json:"meta"`
}

func (s *activityService) List(ctx context.Context, in ListActivityInput) (*ListActivityOutput, error) {
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, in.ProjectID, in.UserID); err != nil {
		return nil, err
	}
	page := in.Page.Normalize()
	items, total, err := b.Activity().ListByProject(ctx, in.ProjectID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Activity{}
	}
	return &ListActivityOutput{Items: items, Meta: paging.NewMeta(page, total)}, nil
}

// recorder appends activity entries. A failed append is logged and swallowed.
type recorder struct {
	log *zap.Logger
}

func (r recorder) record(ctx context.Context, b backend.DataBackend, projectID, userID uuid.UUID, action, description string, metadata map[string]any) {
	a := &model.Activity{
		ProjectID:   projectID,
		UserID:      userID,
		Action:      action,
		Description: description,
	}
	if len(metadata) > 0 {
		a.Metadata = metadata
	}
	// the triggering operation may already be finishing; keep the append alive
	if err := b.Activity().Create(context.WithoutCancel(ctx), a); err != nil {
		r.log.Warn("record activity failed",
			zap.String("project_id", projectID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

// loadOwned fetches a project the caller owns. The demo backend skips the owner check.
func loadOwned(ctx context.Context, b backend.DataBackend, projectID, userID uuid.UUID) (*model.Project, error) {
	p, err := b.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	if !b.Demo() && p.UserID != userID {
		return nil, newError(ErrPermissionDenied, "you do not have access to this project")
	}
	return p, nil
}

// loadReadable also admits public projects.
func loadReadable(ctx context.Context, b backend.DataBackend, projectID, userID uuid.UUID) (*model.Project, error) {
	p, err := b.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	if !b.Demo() && p.UserID != userID && !p.IsPublic {
		return nil, newError(ErrPermissionDenied, "you do not have access to this project")
	}
	return p, nil
}
