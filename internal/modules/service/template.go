package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
	"go.uber.org/zap"
)

type TemplateService interface {
	SaveFromProject(ctx context.Context, in SaveTemplateInput) (*model.Template, error)
	Use(ctx context.Context, in UseTemplateInput) (*model.Project, error)
}

type templateService struct {
	resolver *backend.Resolver
	rec      recorder
	log      *zap.Logger
}

func NewTemplateService(resolver *backend.Resolver, log *zap.Logger) TemplateService {
	return &templateService{resolver: resolver, rec: recorder{log: log}, log: log}
}

type SaveTemplateInput struct {
	UserID      uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Description string
	IsPublic    bool
}

type UseTemplateInput struct {
	UserID     uuid.UUID
	TemplateID uuid.UUID
	Title      string
}

func (s *templateService) SaveFromProject(ctx context.Context, in SaveTemplateInput) (*model.Template, error) {
	b := s.resolver.For(ctx)
	p, err := loadOwned(ctx, b, in.ProjectID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !p.HasCode() {
		return nil, newError(ErrValidation, "only generated projects can be saved as templates")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = p.Title
	}
	desc := in.Description
	if desc == "" {
		desc = p.Description
	}
	src := p.ID
	t := &model.Template{
		UserID:           in.UserID,
		SourceProjectID:  &src,
		Name:             name,
		Description:      desc,
		Category:         p.Category,
		Features:         p.Features,
		TechRequirements: p.TechRequirements,
		GeneratedCode:    append(p.GeneratedCode[:0:0], p.GeneratedCode...),
		IsPublic:         in.IsPublic,
	}
	if err := b.Templates().Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	s.rec.record(ctx, b, p.ID, in.UserID, model.ActionTemplateCreated, fmt.Sprintf("Saved as template %q", t.Name), map[string]any{
		"template_id": t.ID.String(),
		"is_public":   t.IsPublic,
	})
	return t, nil
}

// Use creates a project from a public template or one of the caller's own.
func (s *templateService) Use(ctx context.Context, in UseTemplateInput) (*model.Project, error) {
	b := s.resolver.For(ctx)
	t, err := b.Templates().Get(ctx, in.TemplateID)
	if err != nil {
		return nil, notFoundOr(err, "template")
	}
	if !t.IsPublic && t.UserID != in.UserID && !b.Demo() {
		return nil, newError(ErrPermissionDenied, "this template is private")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = t.Name
	}
	category, err := resolveCategory(ctx, b, in.UserID, t.Category)
	if err != nil {
		category = "other"
	}
	p := &model.Project{
		UserID:           in.UserID,
		Title:            title,
		Description:      t.Description,
		Category:         category,
		Features:         t.Features,
		TechRequirements: t.TechRequirements,
		Status:           model.ProjectStatusDraft,
	}
	if len(t.GeneratedCode) > 0 {
		p.GeneratedCode = append(t.GeneratedCode[:0:0], t.GeneratedCode...)
		p.Status = model.ProjectStatusCompleted
		now := time.Now().UTC()
		p.CompletedAt = &now
	}
	if err := b.Projects().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project from template: %w", err)
	}
	if err := b.Templates().IncrementUsage(ctx, t.ID); err != nil {
		s.log.Warn("increment template usage failed", zap.String("template_id", t.ID.String()), zap.Error(err))
	}
	s.rec.record(ctx, b, p.ID, in.UserID, model.ActionTemplateUsed, fmt.Sprintf("Created from template %q", t.Name), map[string]any{
		"template_id": t.ID.String(),
	})
	return p, nil
}
