package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the router. The ingest endpoint trusts its
// caller; authentication lives in front of this service.
func SetupRoutes(router *gin.Engine, ingestHandler *IngestHandler) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.POST("/sites/ingest", ingestHandler.IngestSite)
}
