package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/saas-factory/api/internal/bootstrap"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/infra/cache"
	"github.com/saas-factory/api/internal/infra/db"
	mq "github.com/saas-factory/api/internal/infra/queue"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/saas-factory/api/internal/router"
	"github.com/saas-factory/api/internal/telemetry"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//	@title						SaaS Factory API
//	@version					1.0
//	@description				Project lifecycle API: create, generate, share, deploy and monitor generated SaaS apps.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Supabase access token: Bearer <token>
func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// tracing must be up before the gorm and redis plugins are registered
	if _, err := telemetry.SetupTracing(cfg); err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	if _, err := telemetry.SetupMetrics(cfg); err != nil {
		log.Warn("metrics disabled", zap.Error(err))
	}

	engine := router.NewRouter(*do.MustInvoke[*router.RouterDeps](inj))
	lifecycle := do.MustInvoke[service.LifecycleService](inj)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Sugar().Infow("starting http server", "addr", srv.Addr, "demo", cfg.Demo.Enabled, "live", cfg.LiveEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout()+10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}

	// background generations finish or hit their own timeout
	done := make(chan struct{})
	go func() {
		lifecycle.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("background generations still running at exit")
	}

	if p := do.MustInvoke[*mq.Publisher](inj); p != nil {
		if err := p.Close(); err != nil {
			log.Warn("close rabbitmq", zap.Error(err))
		}
	}
	if rdb := do.MustInvoke[*redis.Client](inj); rdb != nil {
		_ = cache.Close(rdb)
	}
	if d := do.MustInvoke[*gorm.DB](inj); d != nil {
		_ = db.Close(d)
	}
	if err := telemetry.ShutdownMetrics(ctx); err != nil {
		log.Warn("metrics shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
}
