package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/config"
)

// SetupRouter creates and configures the Gin router.
// A nil limiter disables inbound rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger, limiter RateLimiter) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	if limiter != nil {
		api.Use(RateLimitMiddleware(limiter))
	}
	{
		api.POST("/analyse", handler.Analyse)

		ciqual := api.Group("/ciqual")
		{
			ciqual.GET("/suggestions", handler.Suggestions)
			ciqual.GET("/best", handler.Best)
		}
	}

	return router
}
