package app

import (
	"context"
	"net/http"
	"time"

	"github.com/malusanacoza-ui/TodoListManager/internal/auth"
	"github.com/malusanacoza-ui/TodoListManager/internal/cache"
	"github.com/malusanacoza-ui/TodoListManager/internal/handlers"
	"github.com/malusanacoza-ui/TodoListManager/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, a *App) {
	r.GET("/", rootHandler(a))
	r.GET("/health", healthHandler(a))
	r.GET("/version", versionHandler(a))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")
	api.GET("/csrf", auth.CSRFToken)

	sessionStore := auth.NewStore(a.redis, a.cfg.Session.TTL.Duration())
	requireSession := auth.RequireSession(sessionStore)

	userSvc := service.NewUserService(a.store.users)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc, a.cfg.Session.Secure)
	registerAuthRoutes(api, authHandler, requireSession)

	protected := api.Group("", requireSession)
	taskCache := cache.NewTaskCache(a.redis, a.cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(a.store.tasks, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	registerTaskRoutes(protected, taskHandler)
}

func rootHandler(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo List API",
			"version": a.cfg.App.Version,
			"env":     a.cfg.App.Env,
			"db":      a.cfg.DB.Driver,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

// healthHandler pings the database and Redis; any failure turns the probe into a 503.
func healthHandler(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"db": "ok", "redis": "ok"}
		if err := a.store.ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["db"] = err.Error()
		}
		if err := a.redis.Ping(ctx).Err(); err != nil {
			status = http.StatusServiceUnavailable
			checks["redis"] = err.Error()
		}
		c.JSON(status, gin.H{"ok": status == http.StatusOK, "env": a.cfg.App.Env, "checks": checks})
	}
}

func versionHandler(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": a.cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.POST("/tasks/:id/toggle-complete", h.ToggleComplete)
	api.POST("/tasks/:id/toggle-pin", h.TogglePin)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, requireSession gin.HandlerFunc) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", requireSession, h.Me)
}
