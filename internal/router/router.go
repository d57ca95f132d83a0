package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/agrohub-unirv/edital-hub/docs"
	"github.com/agrohub-unirv/edital-hub/internal/config"
	"github.com/agrohub-unirv/edital-hub/internal/middleware"
	"github.com/agrohub-unirv/edital-hub/internal/modules/handler"
	"github.com/agrohub-unirv/edital-hub/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config         *config.Config
	DB             *gorm.DB
	Log            *zap.Logger
	EditalHandler  *handler.EditalHandler
	ProjectHandler *handler.ProjectHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.OptionalUser(d.DB))

		editais := v1.Group("/editais")
		{
			// public reads; drafts stay hidden for non-staff callers
			editais.GET("", d.EditalHandler.ListEditais)
			editais.GET("/:slug", d.EditalHandler.GetEdital)

			// authoring surface
			editais.POST("", middleware.RequireAuthor(), d.EditalHandler.CreateEdital)
			editais.PUT("/:slug", middleware.RequireAuthor(), d.EditalHandler.UpdateEdital)
			editais.DELETE("/:slug", middleware.RequireAuthor(), d.EditalHandler.DeleteEdital)
			editais.GET("/:slug/history", middleware.RequireAuthor(), d.EditalHandler.GetHistory)
			editais.GET("/export", middleware.RequireAuthor(), d.EditalHandler.ExportEditais)

			// proposals
			editais.POST("/:slug/projects", middleware.RequireUser(), d.ProjectHandler.SubmitProject)
			editais.GET("/:slug/projects", middleware.RequireAuthor(), d.ProjectHandler.ListProjects)
		}

		projects := v1.Group("/projects")
		{
			projects.PUT("/:project_id/review", middleware.RequireAuthor(), d.ProjectHandler.ReviewProject)
		}
	}
	return r
}
