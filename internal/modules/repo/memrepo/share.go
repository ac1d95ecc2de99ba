package memrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type shareRepo struct{ s *Store }

func NewShareRepo(s *Store) repo.ShareRepo { return &shareRepo{s: s} }

func (r *shareRepo) find(projectID, userID uuid.UUID) (uuid.UUID, bool) {
	for id, sh := range r.s.shares {
		if sh.ProjectID == projectID && sh.UserID == userID {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (r *shareRepo) Get(_ context.Context, projectID, userID uuid.UUID) (*model.ShareSetting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.find(projectID, userID)
	if !ok {
		return nil, repo.ErrNotFound
	}
	sh := r.s.shares[id]
	return &sh, nil
}

func (r *shareRepo) GetByTokenHMAC(_ context.Context, lookup string) (*model.ShareSetting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sh := range r.s.shares {
		if sh.TokenHMAC == lookup {
			out := sh
			return &out, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *shareRepo) Upsert(_ context.Context, sh *model.ShareSetting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if id, ok := r.find(sh.ProjectID, sh.UserID); ok {
		cur := r.s.shares[id]
		cur.TokenHMAC = sh.TokenHMAC
		cur.TokenHashPHC = sh.TokenHashPHC
		cur.TokenHint = sh.TokenHint
		cur.IsPublic = sh.IsPublic
		cur.AllowedEmails = sh.AllowedEmails
		cur.UpdatedAt = now
		r.s.shares[id] = cur
		*sh = cur
		return nil
	}
	for _, other := range r.s.shares {
		if other.TokenHMAC == sh.TokenHMAC {
			return repo.ErrDuplicate
		}
	}
	if sh.ID == uuid.Nil {
		sh.ID = uuid.New()
	}
	sh.CreatedAt = now
	sh.UpdatedAt = now
	r.s.shares[sh.ID] = *sh
	return nil
}

func (r *shareRepo) Update(_ context.Context, sh *model.ShareSetting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.find(sh.ProjectID, sh.UserID)
	if !ok {
		return repo.ErrNotFound
	}
	cur := r.s.shares[id]
	cur.IsPublic = sh.IsPublic
	cur.AllowedEmails = sh.AllowedEmails
	cur.UpdatedAt = r.s.now()
	r.s.shares[id] = cur
	return nil
}

func (r *shareRepo) Delete(_ context.Context, projectID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.find(projectID, userID); ok {
		delete(r.s.shares, id)
	}
	return nil
}
