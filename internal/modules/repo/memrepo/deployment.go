package memrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type deploymentRepo struct{ s *Store }

func NewDeploymentRepo(s *Store) repo.DeploymentRepo { return &deploymentRepo{s: s} }

func (r *deploymentRepo) Create(_ context.Context, d *model.Deployment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := r.s.now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = model.DeploymentStatusPending
	}
	r.s.deployments[d.ProjectID] = appendCapped(r.s.deployments[d.ProjectID], *d, r.s.limits.RowsPerProject)
	return nil
}

func (r *deploymentRepo) Update(_ context.Context, d *model.Deployment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.deployments[d.ProjectID]
	for i := range items {
		if items[i].ID == d.ID {
			items[i].Status = d.Status
			items[i].URL = d.URL
			items[i].RepositoryURL = d.RepositoryURL
			items[i].ExternalID = d.ExternalID
			items[i].ErrorMessage = d.ErrorMessage
			items[i].UpdatedAt = r.s.now()
			return nil
		}
	}
	return nil
}

// ListByProject returns newest first.
func (r *deploymentRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.Deployment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.deployments[projectID]
	out := make([]model.Deployment, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}
