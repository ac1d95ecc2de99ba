package memrepo

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type favoriteRepo struct{ s *Store }

func NewFavoriteRepo(s *Store) repo.FavoriteRepo { return &favoriteRepo{s: s} }

func (r *favoriteRepo) Create(_ context.Context, f *model.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := favKey{project: f.ProjectID, user: f.UserID}
	if _, ok := r.s.favorites[k]; ok {
		return repo.ErrDuplicate
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = r.s.now()
	}
	r.s.favorites[k] = *f
	return nil
}

func (r *favoriteRepo) Delete(_ context.Context, projectID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.favorites, favKey{project: projectID, user: userID})
	return nil
}

func (r *favoriteRepo) Exists(_ context.Context, projectID, userID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.favorites[favKey{project: projectID, user: userID}]
	return ok, nil
}

func (r *favoriteRepo) ListProjects(_ context.Context, userID uuid.UUID) ([]model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var favs []model.Favorite
	for k, f := range r.s.favorites {
		if k.user == userID {
			favs = append(favs, f)
		}
	}
	sort.Slice(favs, func(i, j int) bool { return favs[i].CreatedAt.After(favs[j].CreatedAt) })
	items := make([]model.Project, 0, len(favs))
	for _, f := range favs {
		if p, ok := r.s.projects[f.ProjectID]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}
