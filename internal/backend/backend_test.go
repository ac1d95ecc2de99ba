package backend

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/modules/repo/memrepo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_For(t *testing.T) {
	ctx := context.Background()
	demo, err := NewDemoBackend(ctx, 0)
	require.NoError(t, err)
	live := NewLiveBackendWithRepos(Repos{}, generator.NewDemo(0))

	r := NewResolver(live, demo)
	assert.Same(t, live, r.For(ctx))
	assert.Same(t, demo, r.For(WithDemo(ctx, "203.0.113.7")))
	assert.True(t, r.LiveEnabled())

	r = NewResolver(nil, demo)
	assert.Same(t, demo, r.For(ctx))
	assert.False(t, r.LiveEnabled())
}

func TestDemoBackend_Seeded(t *testing.T) {
	ctx := context.Background()
	b, err := NewDemoBackend(ctx, 0)
	require.NoError(t, err)
	assert.True(t, b.Demo())

	items, total, err := b.Projects().List(ctx, repo.ProjectFilter{UserID: DemoUserID, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, len(samples), total)
	for _, p := range items {
		switch p.Status {
		case model.ProjectStatusCompleted:
			assert.NotNil(t, p.CompletedAt)
			assert.True(t, p.HasCode())
		case model.ProjectStatusDeployed:
			assert.NotNil(t, p.CompletedAt)
			assert.NotNil(t, p.DeployedAt)
		}
	}

	cats, err := b.Categories().ListForUser(ctx, DemoUserID)
	require.NoError(t, err)
	assert.Len(t, cats, len(model.SystemCategories))

	d, err := b.Deployer("vercel")
	require.NoError(t, err)
	assert.Equal(t, model.DeployProviderDemo, d.Provider())
}

func TestLiveBackend_Deployer(t *testing.T) {
	b := NewLiveBackendWithRepos(Repos{}, generator.NewDemo(0), deployer.Unconfigured{Name: "s3"})
	d, err := b.Deployer("s3")
	require.NoError(t, err)
	assert.Equal(t, "s3", d.Provider())

	_, err = b.Deployer("netlify")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestSyntheticMetricRepo(t *testing.T) {
	ctx := context.Background()
	r := NewSyntheticMetricRepo(memrepo.NewMetricRepo(memrepo.NewStore()))
	now := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	id := uuid.New()
	a, err := r.Range(ctx, id, model.MetricUptime, now.Add(-24*time.Hour))
	require.NoError(t, err)
	b, err := r.Range(ctx, id, model.MetricUptime, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, a, 25)
	assert.Equal(t, a, b, "series must be deterministic per project")
	for _, p := range a {
		assert.LessOrEqual(t, p.Value, 100.0)
	}

	// stored points win over synthetic ones
	require.NoError(t, r.Insert(ctx, []model.ProjectMetric{{ProjectID: id, Metric: model.MetricRequests, Value: 7, RecordedAt: now.Add(-time.Hour)}}))
	got, err := r.Range(ctx, id, model.MetricRequests, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7.0, got[0].Value)
}
