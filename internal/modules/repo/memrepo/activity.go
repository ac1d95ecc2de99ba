package memrepo

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
)

type activityRepo struct{ s *Store }

func NewActivityRepo(s *Store) repo.ActivityRepo { return &activityRepo{s: s} }

func (r *activityRepo) Create(_ context.Context, a *model.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.s.now()
	}
	r.s.activity[a.ProjectID] = appendCapped(r.s.activity[a.ProjectID], *a, r.s.limits.RowsPerProject)
	return nil
}

func (r *activityRepo) ListByProject(_ context.Context, projectID uuid.UUID, limit, offset int) ([]model.Activity, int64, error) {
	r.s.mu.RLock()
	src := r.s.activity[projectID]
	all := make([]model.Activity, len(src))
	copy(all, src)
	r.s.mu.RUnlock()

	// newest first; equal timestamps keep reverse insertion order
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	reverseTies(all)

	total := int64(len(all))
	if offset >= len(all) {
		return []model.Activity{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

// reverseTies flips each run of equal timestamps so later inserts come first.
func reverseTies(items []model.Activity) {
	for start := 0; start < len(items); {
		end := start + 1
		for end < len(items) && items[end].CreatedAt.Equal(items[start].CreatedAt) {
			end++
		}
		for i, j := start, end-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
		start = end
	}
}

func (r *activityRepo) CountByActionSince(_ context.Context, userID uuid.UUID, since time.Time) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{}
	for _, entries := range r.s.activity {
		for _, a := range entries {
			if a.UserID == userID && !a.CreatedAt.Before(since) {
				out[a.Action]++
			}
		}
	}
	return out, nil
}

func (r *activityRepo) DailyCounts(_ context.Context, userID uuid.UUID, since time.Time) ([]repo.DailyCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byDay := map[string]int64{}
	for _, entries := range r.s.activity {
		for _, a := range entries {
			if a.UserID == userID && !a.CreatedAt.Before(since) {
				byDay[a.CreatedAt.UTC().Format("2006-01-02")]++
			}
		}
	}
	out := make([]repo.DailyCount, 0, len(byDay))
	for d, n := range byDay {
		out = append(out, repo.DailyCount{Day: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}
