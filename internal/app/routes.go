package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "tasks/docs"
	"tasks/internal/cache"
	"tasks/internal/config"
	"tasks/internal/handlers"
	"tasks/internal/mapper"
	"tasks/internal/repo"
	"tasks/internal/service"
)

// Setup registers all routes on the given engine. rdb may be nil, which disables the read cache.
func Setup(r *gin.Engine, cfg config.Config, store repo.Store, rdb *redis.Client, logger *log.Logger) {
	r.Use(handlers.RequestLogger(logger))

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}

	taskMapper := mapper.NewTaskMapper()
	listSvc := service.NewTaskListService(store, taskCache, logger)
	taskSvc := service.NewTaskService(store, taskCache, logger)

	api := r.Group("/api")
	registerTaskListRoutes(api, handlers.NewTaskListHandler(listSvc, mapper.NewTaskListMapper(taskMapper), logger))
	registerTaskRoutes(api, handlers.NewTaskHandler(taskSvc, taskMapper, logger))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task Lists API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskListRoutes(api *gin.RouterGroup, h *handlers.TaskListHandler) {
	api.GET("/task-lists", h.List)
	api.POST("/task-lists", h.Create)
	api.GET("/task-lists/:task_list_id", h.Get)
	api.PUT("/task-lists/:task_list_id", h.Update)
	api.DELETE("/task-lists/:task_list_id", h.Delete)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/task-lists/:task_list_id/tasks", h.List)
	api.POST("/task-lists/:task_list_id/tasks", h.Create)
	api.GET("/task-lists/:task_list_id/tasks/:task_id", h.Get)
	api.PUT("/task-lists/:task_list_id/tasks/:task_id", h.Update)
	api.DELETE("/task-lists/:task_list_id/tasks/:task_id", h.Delete)
}
