package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedActivity(t *testing.T, env *testEnv, p *model.Project, actions ...string) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, env.live.Activity().Create(context.Background(), &model.Activity{
			ProjectID: p.ID,
			UserID:    p.UserID,
			Action:    a,
		}))
	}
}

func TestAnalyticsService_Overview(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewAnalyticsService(env.resolver, nil, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()

	done := env.project(t, owner, withCode)
	env.project(t, owner, func(p *model.Project) { p.Category = "blog" })
	seedActivity(t, env, done,
		model.ActionGenerationStarted, model.ActionGenerationCompleted,
		model.ActionGenerationStarted, model.ActionGenerationFailed,
		model.ActionGenerationStarted, model.ActionGenerationCompleted,
		model.ActionProjectDeployed,
	)

	out, err := svc.Overview(ctx, owner, "")
	require.NoError(t, err)
	assert.Equal(t, "30d", out.TimeRange)
	assert.EqualValues(t, 2, out.TotalProjects)
	assert.EqualValues(t, 1, out.ByStatus[model.ProjectStatusCompleted])
	assert.EqualValues(t, 1, out.ByStatus[model.ProjectStatusDraft])
	assert.EqualValues(t, 1, out.ByCategory["blog"])
	assert.EqualValues(t, 3, out.Generations)
	assert.EqualValues(t, 2, out.Succeeded)
	assert.EqualValues(t, 1, out.Failed)
	assert.EqualValues(t, 1, out.Deployments)
	assert.Equal(t, 66.7, out.SuccessRate)

	require.Len(t, out.DailyActivity, 30)
	assert.EqualValues(t, 7, out.DailyActivity[29].Count)

	_, err = svc.Overview(ctx, owner, "1y")
	assert.ErrorIs(t, err, ErrValidation)

	empty, err := svc.Overview(ctx, uuid.New(), "7d")
	require.NoError(t, err)
	assert.Zero(t, empty.SuccessRate)
	assert.Len(t, empty.DailyActivity, 7)
}

func TestAnalyticsService_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	env := newTestEnv(t, nil)
	svc := NewAnalyticsService(env.resolver, rdb, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()
	env.project(t, owner)

	first, err := svc.Overview(ctx, owner, "7d")
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.TotalProjects)
	assert.True(t, mr.Exists("analytics:overview:"+owner.String()+":7d"))

	env.project(t, owner)
	cached, err := svc.Overview(ctx, owner, "7d")
	require.NoError(t, err)
	assert.EqualValues(t, 1, cached.TotalProjects)

	mr.FastForward(2 * overviewCacheTTL)
	fresh, err := svc.Overview(ctx, owner, "7d")
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh.TotalProjects)
}

func TestFillDays(t *testing.T) {
	since := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	out := fillDays([]repo.DailyCount{{Day: "2026-01-31", Count: 4}}, since, 3)
	assert.Equal(t, []repo.DailyCount{
		{Day: "2026-01-30"},
		{Day: "2026-01-31", Count: 4},
		{Day: "2026-02-01"},
	}, out)
}
