package memrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type templateRepo struct{ s *Store }

func NewTemplateRepo(s *Store) repo.TemplateRepo { return &templateRepo{s: s} }

func (r *templateRepo) Create(_ context.Context, t *model.Template) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := r.s.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.s.makeRoomForTemplate()
	r.s.templates[t.ID] = *t
	return nil
}

func (r *templateRepo) Get(_ context.Context, id uuid.UUID) (*model.Template, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

func (r *templateRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil
	}
	t.UsageCount++
	r.s.templates[id] = t
	return nil
}
