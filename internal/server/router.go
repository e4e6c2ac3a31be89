package server

import (
	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/handlers"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/middleware"
	"bitacora-backend/internal/models"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string
	Sessions       middleware.SessionVerifier

	HealthHandler    *handlers.HealthHandler
	AuthHandler      *handlers.AuthHandler
	ProjectsHandler  *handlers.ProjectsHandler
	ClassLogsHandler *handlers.ClassLogsHandler
	MediaHandler     *handlers.MediaHandler
	PlansHandler     *handlers.PlansHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check (no auth)
	router.GET("/health", cfg.HealthHandler.Health)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", cfg.AuthHandler.Register)
	auth.POST("/login", cfg.AuthHandler.Login)

	// Any signed-in identity may read
	read := api.Group("")
	read.Use(middleware.AuthMiddleware(cfg.Sessions))
	read.GET("/projects", cfg.ProjectsHandler.ListProjects)
	read.GET("/projects/:project_id", cfg.ProjectsHandler.GetProject)
	read.GET("/class-logs", cfg.ClassLogsHandler.ListClassLogEntries)
	read.GET("/media", cfg.MediaHandler.ListMediaAssets)
	read.GET("/plans", cfg.PlansHandler.ListPlanDocuments)
	read.GET("/plans/:plan_id", cfg.PlansHandler.GetPlanDocument)
	read.GET("/plans/:plan_id/files", cfg.PlansHandler.ListPlanFiles)

	// Writes are admin only
	write := api.Group("")
	write.Use(middleware.AuthMiddleware(cfg.Sessions), middleware.RequireRole(models.RoleAdmin))
	write.POST("/projects", cfg.ProjectsHandler.CreateProject)
	write.PATCH("/projects/:project_id", cfg.ProjectsHandler.UpdateProject)
	write.POST("/class-logs", cfg.ClassLogsHandler.CreateClassLogEntry)
	write.PATCH("/class-logs/:entry_id", cfg.ClassLogsHandler.UpdateClassLogEntry)
	write.POST("/media", cfg.MediaHandler.CreateMediaAsset)
	write.PATCH("/media/:media_id", cfg.MediaHandler.UpdateMediaAsset)
	write.POST("/plans", cfg.PlansHandler.CreatePlanDocument)
	write.PATCH("/plans/:plan_id", cfg.PlansHandler.UpdatePlanDocument)
	write.POST("/plans/:plan_id/files", cfg.PlansHandler.CreatePlanFile)
	write.PATCH("/plan-files/:file_id", cfg.PlansHandler.UpdatePlanFile)

	return router
}
