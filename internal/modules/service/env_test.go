package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo/memrepo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
	"github.com/stretchr/testify/require"
)

// testEnv is a live backend over in-memory repositories.
type testEnv struct {
	store    *memrepo.Store
	live     *backend.LiveBackend
	resolver *backend.Resolver
}

func newTestEnv(t *testing.T, gen generator.Generator, deployers ...deployer.Deployer) *testEnv {
	t.Helper()
	if gen == nil {
		gen = generator.NewDemo(0)
	}
	store := memrepo.NewStore()
	live := backend.NewLiveBackendWithRepos(backend.Repos{
		ProjectRepo:    memrepo.NewProjectRepo(store),
		LogRepo:        memrepo.NewGenerationLogRepo(store),
		ActivityRepo:   memrepo.NewActivityRepo(store),
		ShareRepo:      memrepo.NewShareRepo(store),
		FavoriteRepo:   memrepo.NewFavoriteRepo(store),
		CategoryRepo:   memrepo.NewCategoryRepo(store),
		TemplateRepo:   memrepo.NewTemplateRepo(store),
		DeploymentRepo: memrepo.NewDeploymentRepo(store),
		MetricRepo:     memrepo.NewMetricRepo(store),
	}, gen, deployers...)
	require.NoError(t, live.Categories().EnsureSystem(context.Background(), model.SystemCategories))

	demo, err := backend.NewDemoBackend(context.Background(), 0)
	require.NoError(t, err)
	return &testEnv{store: store, live: live, resolver: backend.NewResolver(live, demo)}
}

func (e *testEnv) project(t *testing.T, owner uuid.UUID, mutate ...func(*model.Project)) *model.Project {
	t.Helper()
	p := &model.Project{UserID: owner, Title: "Todo App", Description: "Track tasks", Category: "todo"}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, e.live.Projects().Create(context.Background(), p))
	return p
}

func (e *testEnv) actions(t *testing.T, projectID uuid.UUID) []string {
	t.Helper()
	items, _, err := e.live.Activity().ListByProject(context.Background(), projectID, 0, 0)
	require.NoError(t, err)
	// repo order is newest first
	out := make([]string, len(items))
	for i, a := range items {
		out[len(items)-1-i] = a.Action
	}
	return out
}

func withCode(p *model.Project) {
	raw, _ := model.EncodeGeneratedCode(generator.DemoArtifact(generator.Request{Title: p.Title, Category: p.Category}))
	p.GeneratedCode = raw
	p.Status = model.ProjectStatusCompleted
}

// recordingPublisher captures lifecycle events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []LifecycleEvent
}

func (r *recordingPublisher) PublishJSON(_ context.Context, key string, body any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := body.(LifecycleEvent)
	ev.Event = key
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Event
	}
	return out
}
