package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Prometheus metrics
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Analysis endpoints
		analyze := v1.Group("/analyze")
		{
			analyze.POST("/cross-platform", handler.AnalyzeCrossPlatform) // POST /api/v1/analyze/cross-platform
			analyze.POST("/listing", handler.AnalyzeListing)              // POST /api/v1/analyze/listing
			analyze.GET("/history", handler.GetHistory)                   // GET /api/v1/analyze/history
			analyze.GET("/history/:id", handler.GetHistoryRecord)         // GET /api/v1/analyze/history/:id
			analyze.GET("/stats", handler.GetStats)                       // GET /api/v1/analyze/stats
		}

		// Platform registry endpoints
		v1.GET("/platforms", handler.ListPlatforms) // GET /api/v1/platforms

		// Quota endpoints
		v1.GET("/quota/:user_id", handler.GetQuota) // GET /api/v1/quota/:user_id
	}
}
