package handlers

import (
	"github.com/alimgiray/timetrack/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything SetupRoutes mounts
type Handlers struct {
	Project  *ProjectHandler
	Timer    *TimerHandler
	Export   *ExportHandler
	Health   *HealthHandler
	NotFound *NotFoundHandler
}

// NewRouter builds an engine with the request middleware and every route mounted
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	SetupRoutes(router, h)
	return router
}

func SetupRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api")
	{
		projects := api.Group("/projects")
		projects.POST("", h.Project.CreateProject)
		projects.GET("", h.Project.ListProjects)
		projects.GET("/:id", h.Project.GetProject)
		projects.PUT("/:id", h.Project.UpdateProject)
		projects.DELETE("/:id", h.Project.DeleteProject)

		timers := api.Group("/timers")
		timers.POST("", h.Timer.SaveTimer)
		timers.GET("", h.Timer.ListTimers)
		timers.GET("/export", h.Export.ExportTimers)
		timers.GET("/:id", h.Timer.GetTimer)
		timers.PUT("/:id", h.Timer.UpdateTimer)
		timers.DELETE("/:id", h.Timer.DeleteTimer)
	}

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(h.NotFound.NotFound)
}
