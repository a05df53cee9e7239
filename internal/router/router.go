// Package router wires middleware and routes onto the Gin engine.
package router

import (
	"time"

	"pelotazo/internal/config"
	"pelotazo/internal/handler"
	"pelotazo/internal/middleware"

	"github.com/gin-gonic/gin"
)

func New(cfg *config.Config, importaciones *handler.ImportacionHandler, health *handler.HealthHandler) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.CORS(),
	)

	r.GET("/health", health.Check)

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(200, time.Minute))
	{
		api.POST("/importaciones", importaciones.Crear)
		api.GET("/importaciones/:id", importaciones.Get)
	}

	return r
}
