package memrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type generationLogRepo struct{ s *Store }

func NewGenerationLogRepo(s *Store) repo.GenerationLogRepo { return &generationLogRepo{s: s} }

func (r *generationLogRepo) Create(_ context.Context, l *model.GenerationLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.StartedAt.IsZero() {
		l.StartedAt = r.s.now()
	}
	r.s.logs[l.ProjectID] = appendCapped(r.s.logs[l.ProjectID], *l, r.s.limits.RowsPerProject)
	return nil
}

func (r *generationLogRepo) Finish(_ context.Context, id uuid.UUID, status model.StepStatus, message string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for pid, entries := range r.s.logs {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Status = status
				entries[i].Message = message
				t := at
				entries[i].CompletedAt = &t
				r.s.logs[pid] = entries
				return nil
			}
		}
	}
	return repo.ErrNotFound
}

// ListByProject returns entries in insertion order, which is started_at order.
func (r *generationLogRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.GenerationLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.logs[projectID]
	out := make([]model.GenerationLog, len(src))
	copy(out, src)
	return out, nil
}
