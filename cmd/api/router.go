package main

import (
	"context"
	"net/http"
	"time"

	"mealmates-backend/internal/shared/middleware"
	"mealmates-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middlewares and routes onto a fresh gin engine.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// Two parallel groups over the same prefix: protected carries auth.
	public := router.Group("/api/v1")
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(c.JWTManager))

	public.GET("/health", healthCheckHandler(c))

	c.UserHandler.RegisterRoutes(public, protected)
	c.DonationHandler.RegisterRoutes(public, protected)

	return router
}

// healthCheckHandler reports the health of downstream dependencies.
// A database failure degrades the whole service; a cache failure does not.
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		checks := gin.H{}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["database"] = gin.H{"status": "up"}
		}

		if err := c.Cache.Ping(checkCtx); err != nil {
			checks["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["redis"] = gin.H{"status": "up"}
		}

		ctx.JSON(httpStatus, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"checks":    checks,
		})
	}
}
