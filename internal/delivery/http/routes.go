package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mensahub/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		menu := v1.Group("/menu")
		{
			menu.GET("", handler.GetMenu)
			menu.GET("/:hall", handler.GetHallMenu)
			menu.GET("/:hall/:date", handler.GetHallMenuForDate)
		}

		v1.GET("/halls", handler.ListHalls)
		v1.GET("/dates", handler.ListDates)
		v1.GET("/markings", handler.ListMarkings)
		v1.GET("/status", handler.GetStatus)

		v1.POST("/refresh", handler.TriggerRefresh)
		v1.POST("/enrichment", handler.TriggerEnrichment)
	}

	return router
}
