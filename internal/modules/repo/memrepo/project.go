package memrepo

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type projectRepo struct{ s *Store }

func NewProjectRepo(s *Store) repo.ProjectRepo { return &projectRepo{s: s} }

func (r *projectRepo) Create(_ context.Context, p *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := r.s.projects[p.ID]; ok {
		return repo.ErrDuplicate
	}
	now := r.s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = model.ProjectStatusDraft
	}
	if p.Category == "" {
		p.Category = "other"
	}
	r.s.makeRoomForProject()
	r.s.projects[p.ID] = *p
	return nil
}

func (r *projectRepo) Get(_ context.Context, id uuid.UUID) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (r *projectRepo) List(_ context.Context, f repo.ProjectFilter) ([]model.Project, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.Project
	for _, p := range r.s.projects {
		if p.UserID != f.UserID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() > all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if f.Offset >= len(all) {
		return []model.Project{}, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *projectRepo) Update(_ context.Context, id uuid.UUID, u repo.ProjectUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Apply(&p)
	p.UpdatedAt = r.s.now()
	r.s.projects[id] = p
	return nil
}

func (r *projectRepo) TransitionStatus(_ context.Context, id uuid.UUID, from []model.ProjectStatus, u repo.ProjectUpdate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, st := range from {
		if p.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	u.Apply(&p)
	p.UpdatedAt = r.s.now()
	r.s.projects[id] = p
	return true, nil
}

func (r *projectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return repo.ErrNotFound
	}
	r.s.dropProject(id)
	return nil
}

func (r *projectRepo) CountByCategory(_ context.Context, userID uuid.UUID, slug string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.projects {
		if p.UserID == userID && p.Category == slug {
			n++
		}
	}
	return n, nil
}

func (r *projectRepo) StatusCounts(_ context.Context, userID uuid.UUID) (map[model.ProjectStatus]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[model.ProjectStatus]int64{}
	for _, p := range r.s.projects {
		if p.UserID == userID {
			out[p.Status]++
		}
	}
	return out, nil
}

func (r *projectRepo) CategoryCounts(_ context.Context, userID uuid.UUID) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{}
	for _, p := range r.s.projects {
		if p.UserID == userID {
			out[p.Category]++
		}
	}
	return out, nil
}
