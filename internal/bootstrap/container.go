package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/infra/blob"
	"github.com/saas-factory/api/internal/infra/cache"
	"github.com/saas-factory/api/internal/infra/db"
	"github.com/saas-factory/api/internal/infra/httpclient"
	"github.com/saas-factory/api/internal/infra/logger"
	mq "github.com/saas-factory/api/internal/infra/queue"
	"github.com/saas-factory/api/internal/middleware"
	"github.com/saas-factory/api/internal/modules/handler"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
	"github.com/saas-factory/api/internal/pkg/ratelimit"
	"github.com/saas-factory/api/internal/pkg/tokenizer"
	"github.com/saas-factory/api/internal/router"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Optional infrastructure (database, redis, broker, S3) is provided as a nil pointer
// when it is not configured. Consumers convert with the helpers at the bottom so a nil
// pointer never ends up inside a non-nil interface.
func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.LiveEnabled() {
			return nil, nil
		}
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Telemetry.Enabled {
			if err := db.RegisterOpenTelemetryPlugin(d); err != nil {
				log.Warn("gorm otel plugin", zap.Error(err))
			}
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		if err := EnsureSystemCategories(context.Background(), repo.NewCategoryRepo(d), log); err != nil {
			return nil, err
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Redis.Addr == "" {
			return nil, nil
		}
		rdb, err := cache.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Telemetry.Enabled {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				do.MustInvoke[*zap.Logger](i).Warn("redis otel plugin", zap.Error(err))
			}
		}
		return rdb, nil
	})

	// RabbitMQ
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		return mq.NewDialFunc(do.MustInvoke[*config.Config](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}
		return mq.NewPublisher(do.MustInvoke[mq.DialFunc](i), do.MustInvoke[*zap.Logger](i), cfg)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !blob.Configured(cfg) {
			return nil, nil
		}
		return blob.NewS3(context.Background(), cfg)
	})

	// Generator
	do.Provide(inj, func(i *do.Injector) (generator.Generator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		if err := tokenizer.Init(log); err != nil {
			// prompt budget checks are skipped without a tokenizer
			log.Warn("tokenizer init failed", zap.Error(err))
		}
		return generator.New(cfg, log), nil
	})

	// Deployers
	do.Provide(inj, func(i *do.Injector) ([]deployer.Deployer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		hc := httpclient.NewInstrumented(60 * time.Second)

		var out []deployer.Deployer
		if cfg.Deploy.VercelToken != "" {
			var gh deployer.GithubAPI
			if cfg.Deploy.GithubToken != "" {
				gh = httpclient.NewGithubClient("", cfg.Deploy.GithubToken, cfg.Deploy.GithubOwner, hc, log)
			}
			vc := httpclient.NewVercelClient("", cfg.Deploy.VercelToken, cfg.Deploy.VercelTeamID, hc, log)
			out = append(out, deployer.NewVercel(vc, gh, log))
		} else {
			out = append(out, deployer.Unconfigured{Name: "vercel"})
		}
		if s3 := do.MustInvoke[*blob.S3Deps](i); s3 != nil {
			out = append(out, deployer.NewS3(s3, log))
		} else {
			out = append(out, deployer.Unconfigured{Name: "s3"})
		}
		return out, nil
	})

	// Backends
	do.Provide(inj, func(i *do.Injector) (*backend.Resolver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		demo, err := backend.NewDemoBackend(context.Background(), cfg.DemoStepInterval())
		if err != nil {
			return nil, err
		}
		var live backend.DataBackend
		if d := do.MustInvoke[*gorm.DB](i); d != nil {
			live = backend.NewLiveBackend(d, do.MustInvoke[generator.Generator](i), do.MustInvoke[[]deployer.Deployer](i)...)
		}
		return backend.NewResolver(live, demo), nil
	})

	// Rate limiter
	do.Provide(inj, func(i *do.Injector) (service.RateLimiter, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rdb := do.MustInvoke[*redis.Client](i)
		if rdb == nil || cfg.RateLimit.GeneratePerWindow <= 0 {
			return nil, nil
		}
		return ratelimit.NewFixedWindowLimiter(rdb, "ratelimit:generate", cfg.RateLimit.GeneratePerWindow,
			time.Duration(cfg.RateLimit.WindowSec)*time.Second)
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(do.MustInvoke[*backend.Resolver](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ActivityService, error) {
		return service.NewActivityService(do.MustInvoke[*backend.Resolver](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.LifecycleService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewLifecycleService(
			do.MustInvoke[*backend.Resolver](i),
			service.LifecycleOptionsFromConfig(cfg),
			publisher(do.MustInvoke[*mq.Publisher](i)),
			do.MustInvoke[service.RateLimiter](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FavoriteService, error) {
		return service.NewFavoriteService(do.MustInvoke[*backend.Resolver](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ShareService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewShareService(do.MustInvoke[*backend.Resolver](i), cfg.Share, do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CategoryService, error) {
		return service.NewCategoryService(do.MustInvoke[*backend.Resolver](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TemplateService, error) {
		return service.NewTemplateService(do.MustInvoke[*backend.Resolver](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DeployService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewDeployService(
			do.MustInvoke[*backend.Resolver](i),
			publisher(do.MustInvoke[*mq.Publisher](i)),
			[]string{cfg.Deploy.VercelToken, cfg.Deploy.GithubToken, cfg.S3.SecretKey},
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.MonitoringService, error) {
		return service.NewMonitoringService(do.MustInvoke[*backend.Resolver](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AnalyticsService, error) {
		return service.NewAnalyticsService(
			do.MustInvoke[*backend.Resolver](i),
			cmdable(do.MustInvoke[*redis.Client](i)),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i), do.MustInvoke[service.ActivityService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.GenerationHandler, error) {
		return handler.NewGenerationHandler(do.MustInvoke[service.LifecycleService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FavoriteHandler, error) {
		return handler.NewFavoriteHandler(do.MustInvoke[service.FavoriteService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ShareHandler, error) {
		return handler.NewShareHandler(do.MustInvoke[service.ShareService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TemplateHandler, error) {
		return handler.NewTemplateHandler(do.MustInvoke[service.TemplateService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CategoryHandler, error) {
		return handler.NewCategoryHandler(do.MustInvoke[service.CategoryService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DeployHandler, error) {
		return handler.NewDeployHandler(do.MustInvoke[service.DeployService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.MonitoringHandler, error) {
		return handler.NewMonitoringHandler(do.MustInvoke[service.MonitoringService](i), do.MustInvoke[service.AnalyticsService](i)), nil
	})

	// Auth
	do.Provide(inj, func(i *do.Injector) (middleware.TokenVerifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		v := middleware.NewSupabaseVerifier(cfg, cmdable(do.MustInvoke[*redis.Client](i)), do.MustInvoke[*zap.Logger](i))
		if v == nil {
			return nil, nil
		}
		return v, nil
	})

	// Router
	do.Provide(inj, func(i *do.Injector) (*router.RouterDeps, error) {
		return &router.RouterDeps{
			Config:            do.MustInvoke[*config.Config](i),
			Log:               do.MustInvoke[*zap.Logger](i),
			Verifier:          do.MustInvoke[middleware.TokenVerifier](i),
			ProjectHandler:    do.MustInvoke[*handler.ProjectHandler](i),
			GenerationHandler: do.MustInvoke[*handler.GenerationHandler](i),
			FavoriteHandler:   do.MustInvoke[*handler.FavoriteHandler](i),
			ShareHandler:      do.MustInvoke[*handler.ShareHandler](i),
			TemplateHandler:   do.MustInvoke[*handler.TemplateHandler](i),
			CategoryHandler:   do.MustInvoke[*handler.CategoryHandler](i),
			DeployHandler:     do.MustInvoke[*handler.DeployHandler](i),
			MonitoringHandler: do.MustInvoke[*handler.MonitoringHandler](i),
		}, nil
	})
	return inj
}

func cmdable(rdb *redis.Client) redis.Cmdable {
	if rdb == nil {
		return nil
	}
	return rdb
}

func publisher(p *mq.Publisher) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
