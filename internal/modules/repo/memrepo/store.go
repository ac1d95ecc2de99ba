// Package memrepo keeps every repository in process memory. It backs demo mode and the
// service tests; data is lost on restart.
package memrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
)

type favKey struct {
	project uuid.UUID
	user    uuid.UUID
}

// Store is the shared state behind all memrepo repositories.
type Store struct {
	mu sync.RWMutex

	projects    map[uuid.UUID]model.Project
	logs        map[uuid.UUID][]model.GenerationLog
	activity    map[uuid.UUID][]model.Activity
	shares      map[uuid.UUID]model.ShareSetting // key: share id
	favorites   map[favKey]model.Favorite
	categories  map[uuid.UUID]model.Category
	templates   map[uuid.UUID]model.Template
	deployments map[uuid.UUID][]model.Deployment
	metrics     map[uuid.UUID][]model.ProjectMetric

	limits Limits
	now    func() time.Time
}

// Limits caps what a Store keeps. Zero means unbounded. Projects, templates and custom
// categories are evicted oldest first; per-project rows (logs, activity, deployments,
// metrics) drop their oldest entries.
type Limits struct {
	Projects       int
	Templates      int
	Categories     int
	RowsPerProject int
}

// NewStore initializes an empty, unbounded store.
func NewStore() *Store {
	return NewBoundedStore(Limits{})
}

// NewBoundedStore initializes an empty store that evicts past l.
func NewBoundedStore(l Limits) *Store {
	return &Store{
		limits:      l,
		projects:    make(map[uuid.UUID]model.Project),
		logs:        make(map[uuid.UUID][]model.GenerationLog),
		activity:    make(map[uuid.UUID][]model.Activity),
		shares:      make(map[uuid.UUID]model.ShareSetting),
		favorites:   make(map[favKey]model.Favorite),
		categories:  make(map[uuid.UUID]model.Category),
		templates:   make(map[uuid.UUID]model.Template),
		deployments: make(map[uuid.UUID][]model.Deployment),
		metrics:     make(map[uuid.UUID][]model.ProjectMetric),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source, for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// dropProject removes a project and mirrors ON DELETE CASCADE. Callers hold mu.
func (s *Store) dropProject(id uuid.UUID) {
	delete(s.projects, id)
	delete(s.logs, id)
	delete(s.activity, id)
	delete(s.deployments, id)
	delete(s.metrics, id)
	for k, sh := range s.shares {
		if sh.ProjectID == id {
			delete(s.shares, k)
		}
	}
	for k := range s.favorites {
		if k.project == id {
			delete(s.favorites, k)
		}
	}
}

// makeRoomForProject evicts the oldest projects until one more fits. Callers hold mu.
func (s *Store) makeRoomForProject() {
	if s.limits.Projects <= 0 || len(s.projects) < s.limits.Projects {
		return
	}
	ids := make([]uuid.UUID, 0, len(s.projects))
	for id := range s.projects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return olderThan(s.projects[ids[i]].CreatedAt, s.projects[ids[j]].CreatedAt, ids[i], ids[j])
	})
	for _, id := range ids[:len(s.projects)-s.limits.Projects+1] {
		s.dropProject(id)
	}
}

func (s *Store) makeRoomForTemplate() {
	if s.limits.Templates <= 0 || len(s.templates) < s.limits.Templates {
		return
	}
	ids := make([]uuid.UUID, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return olderThan(s.templates[ids[i]].CreatedAt, s.templates[ids[j]].CreatedAt, ids[i], ids[j])
	})
	for _, id := range ids[:len(s.templates)-s.limits.Templates+1] {
		delete(s.templates, id)
	}
}

// makeRoomForCategory only evicts custom categories; system ones are never dropped.
func (s *Store) makeRoomForCategory() {
	if s.limits.Categories <= 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(s.categories))
	for id, c := range s.categories {
		if !c.IsSystem {
			ids = append(ids, id)
		}
	}
	if len(ids) < s.limits.Categories {
		return
	}
	sort.Slice(ids, func(i, j int) bool {
		return olderThan(s.categories[ids[i]].CreatedAt, s.categories[ids[j]].CreatedAt, ids[i], ids[j])
	})
	for _, id := range ids[:len(ids)-s.limits.Categories+1] {
		delete(s.categories, id)
	}
}

func olderThan(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA.String() < idB.String()
}

// appendCapped appends v and keeps at most limit trailing rows.
func appendCapped[T any](rows []T, v T, limit int) []T {
	rows = append(rows, v)
	if limit > 0 && len(rows) > limit {
		rows = append([]T(nil), rows[len(rows)-limit:]...)
	}
	return rows
}
