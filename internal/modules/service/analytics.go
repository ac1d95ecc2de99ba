package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/infra/cache"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const overviewCacheTTL = 60 * time.Second

type AnalyticsService interface {
	Overview(ctx context.Context, userID uuid.UUID, timeRange string) (*Overview, error)
}

type analyticsService struct {
	resolver *backend.Resolver
	rdb      redis.Cmdable
	log      *zap.Logger
	now      func() time.Time
}

// NewAnalyticsService accepts a nil redis client, which disables caching.
func NewAnalyticsService(resolver *backend.Resolver, rdb redis.Cmdable, log *zap.Logger) AnalyticsService {
	return &analyticsService{resolver: resolver, rdb: rdb, log: log, now: func() time.Time { return time.Now().UTC() }}
}

type Overview struct {
	TimeRange     string                        `json:"time_range"`
	TotalProjects int64                         `json:"total_projects"`
	ByStatus      map[model.ProjectStatus]int64 `json:"by_status"`
	ByCategory    map[string]int64              `json:"by_category"`
	Generations   int64                         `json:"generations"`
	Succeeded     int64                         `json:"generations_succeeded"`
	Failed        int64                         `json:"generations_failed"`
	Deployments   int64                         `json:"deployments"`
	// SuccessRate is a percentage of finished generations, 0 when none finished.
	SuccessRate   float64           `json:"success_rate"`
	DailyActivity []repo.DailyCount `json:"daily_activity"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

var analyticsRanges = map[string]int{"7d": 7, "30d": 30, "90d": 90}

func (s *analyticsService) Overview(ctx context.Context, userID uuid.UUID, timeRange string) (*Overview, error) {
	if timeRange == "" {
		timeRange = "30d"
	}
	days, ok := analyticsRanges[timeRange]
	if !ok {
		return nil, newError(ErrValidation, "unsupported time range %q", timeRange)
	}

	b := s.resolver.For(ctx)
	useCache := s.rdb != nil && !b.Demo()
	key := fmt.Sprintf("analytics:overview:%s:%s", userID, timeRange)
	if useCache {
		var cached Overview
		hit, err := cache.GetJSON(ctx, s.rdb, key, &cached)
		if err != nil {
			s.log.Warn("analytics cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	now := s.now()
	since := now.Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))
	out := &Overview{TimeRange: timeRange, GeneratedAt: now}

	var (
		actions map[string]int64
		daily   []repo.DailyCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := b.Projects().StatusCounts(gctx, userID)
		out.ByStatus = m
		return err
	})
	g.Go(func() error {
		m, err := b.Projects().CategoryCounts(gctx, userID)
		out.ByCategory = m
		return err
	})
	g.Go(func() error {
		m, err := b.Activity().CountByActionSince(gctx, userID, since)
		actions = m
		return err
	})
	g.Go(func() error {
		d, err := b.Activity().DailyCounts(gctx, userID, since)
		daily = d
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate analytics: %w", err)
	}

	for _, n := range out.ByStatus {
		out.TotalProjects += n
	}
	out.Generations = actions[model.ActionGenerationStarted]
	out.Succeeded = actions[model.ActionGenerationCompleted]
	out.Failed = actions[model.ActionGenerationFailed]
	out.Deployments = actions[model.ActionProjectDeployed]
	if finished := out.Succeeded + out.Failed; finished > 0 {
		out.SuccessRate = math.Round(float64(out.Succeeded)/float64(finished)*1000) / 10
	}
	out.DailyActivity = fillDays(daily, since, days)

	if useCache {
		if err := cache.SetJSON(ctx, s.rdb, key, out, overviewCacheTTL); err != nil {
			s.log.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// fillDays returns one entry per day starting at since, zero where nothing happened.
func fillDays(counts []repo.DailyCount, since time.Time, days int) []repo.DailyCount {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}
	out := make([]repo.DailyCount, days)
	for i := range out {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out[i] = repo.DailyCount{Day: day, Count: byDay[day]}
	}
	return out
}
