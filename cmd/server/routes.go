package main

import (
	"github.com/gin-gonic/gin"

	"explore-sync.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	syncHandler      *handlers.SyncHandler
	apiKeyMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Sync control (operator API key required for mutations)
		sync := v1.Group("/sync")
		{
			sync.POST("", d.apiKeyMiddleware, d.syncHandler.Trigger)
			sync.POST("/cancel", d.apiKeyMiddleware, d.syncHandler.Cancel)
			sync.GET("/status", d.syncHandler.Status)
			sync.GET("/matches", d.syncHandler.Matches)
		}

		// Latest run report, same payload as /sync/status
		v1.GET("/report", d.syncHandler.Status)
	}
}
