package memrepo

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type categoryRepo struct{ s *Store }

func NewCategoryRepo(s *Store) repo.CategoryRepo { return &categoryRepo{s: s} }

func (r *categoryRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []model.Category
	for _, c := range r.s.categories {
		if c.IsSystem || (c.UserID != nil && *c.UserID == userID) {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsSystem != items[j].IsSystem {
			return items[i].IsSystem
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *categoryRepo) Get(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

// nameTaken mirrors the (user_id, name) unique index.
func (r *categoryRepo) nameTaken(c *model.Category) bool {
	for _, other := range r.s.categories {
		if other.ID == c.ID || other.Name != c.Name {
			continue
		}
		if other.UserID == nil && c.UserID == nil {
			return true
		}
		if other.UserID != nil && c.UserID != nil && *other.UserID == *c.UserID {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if r.nameTaken(c) {
		return repo.ErrDuplicate
	}
	now := r.s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if !c.IsSystem {
		r.s.makeRoomForCategory()
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Update(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.categories[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	candidate := cur
	candidate.Name = c.Name
	if r.nameTaken(&candidate) {
		return repo.ErrDuplicate
	}
	cur.Name = c.Name
	cur.Slug = c.Slug
	cur.Description = c.Description
	cur.Icon = c.Icon
	cur.Color = c.Color
	cur.UpdatedAt = r.s.now()
	r.s.categories[c.ID] = cur
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r *categoryRepo) EnsureSystem(_ context.Context, cats []model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	have := map[string]bool{}
	for _, c := range r.s.categories {
		if c.IsSystem {
			have[c.Slug] = true
		}
	}
	now := r.s.now()
	for _, c := range cats {
		if have[c.Slug] {
			continue
		}
		c.ID = uuid.New()
		c.IsSystem = true
		c.UserID = nil
		c.CreatedAt = now
		c.UpdatedAt = now
		r.s.categories[c.ID] = c
	}
	return nil
}
