package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/saas-factory/api/docs"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/middleware"
	"github.com/saas-factory/api/internal/modules/handler"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config *config.Config
	Log    *zap.Logger
	// Verifier is nil when Supabase is not configured.
	Verifier          middleware.TokenVerifier
	ProjectHandler    *handler.ProjectHandler
	GenerationHandler *handler.GenerationHandler
	FavoriteHandler   *handler.FavoriteHandler
	ShareHandler      *handler.ShareHandler
	TemplateHandler   *handler.TemplateHandler
	CategoryHandler   *handler.CategoryHandler
	DeployHandler     *handler.DeployHandler
	MonitoringHandler *handler.MonitoringHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)
	if err := middleware.RegisterValidators(); err != nil {
		d.Log.Error("register validators", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(middleware.CORS(d.Config.App.AllowOrigins))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, serializer.Response{Success: true, Code: http.StatusOK, Msg: "ok"})
	})

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// shared links are readable by anyone; a signed-in caller's email is used for private shares
	v1.GET("/shared/:token", middleware.UserAuth(middleware.AuthOptions{Verifier: d.Verifier, Optional: true}), d.ShareHandler.ResolveShare)
	v1.POST("/shared/:token", middleware.UserAuth(middleware.AuthOptions{Verifier: d.Verifier, Optional: true}), d.ShareHandler.ResolveShare)

	authed := v1.Group("")
	authed.Use(middleware.UserAuth(middleware.AuthOptions{Verifier: d.Verifier, DemoEnabled: d.Config.Demo.Enabled}))
	{
		authed.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, serializer.Response{Success: true, Code: http.StatusOK, Msg: "pong"})
		})

		projects := authed.Group("/projects")
		{
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.POST("", d.ProjectHandler.CreateProject)

			projects.POST("/generate", d.GenerationHandler.Generate)
			projects.GET("/generate", d.GenerationHandler.GetStatus)
			projects.GET("/generate/stream", d.GenerationHandler.Stream)

			projects.GET("/:project_id", d.ProjectHandler.GetProject)
			projects.PUT("/:project_id", d.ProjectHandler.UpdateProject)
			projects.DELETE("/:project_id", d.ProjectHandler.DeleteProject)
			projects.GET("/:project_id/activity", d.ProjectHandler.GetActivity)
			projects.POST("/:project_id/clone", d.ProjectHandler.CloneProject)

			projects.GET("/:project_id/favorite", d.FavoriteHandler.GetFavorite)
			projects.POST("/:project_id/favorite", d.FavoriteHandler.AddFavorite)
			projects.DELETE("/:project_id/favorite", d.FavoriteHandler.RemoveFavorite)

			projects.GET("/:project_id/share", d.ShareHandler.GetShare)
			projects.POST("/:project_id/share", d.ShareHandler.CreateShare)
			projects.PUT("/:project_id/share", d.ShareHandler.UpdateShare)
			projects.DELETE("/:project_id/share", d.ShareHandler.DeleteShare)

			projects.POST("/:project_id/template", d.TemplateHandler.SaveTemplate)

			projects.POST("/:project_id/deploy/one-click", d.DeployHandler.OneClickDeploy)
			projects.GET("/:project_id/deployments", d.DeployHandler.ListDeployments)
		}

		authed.GET("/favorites", d.FavoriteHandler.ListFavorites)
		authed.POST("/templates/:template_id/use", d.TemplateHandler.UseTemplate)

		categories := authed.Group("/categories")
		{
			categories.GET("", d.CategoryHandler.ListCategories)
			categories.POST("", d.CategoryHandler.CreateCategory)
			categories.PUT("/:category_id", d.CategoryHandler.UpdateCategory)
			categories.DELETE("/:category_id", d.CategoryHandler.DeleteCategory)
		}

		monitoring := authed.Group("/monitoring")
		{
			monitoring.GET("/projects/:project_id", d.MonitoringHandler.GetMetrics)
			monitoring.POST("/projects/:project_id", d.MonitoringHandler.IngestMetrics)
		}

		authed.GET("/analytics/overview", d.MonitoringHandler.GetOverview)
	}
	return r
}
