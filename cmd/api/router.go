package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the inspection endpoints. The API is
// read-only and single-tenant, so there is no auth layer.
func SetupRoutes(r *gin.Engine, handler *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/classes", handler.ListClasses)
		api.GET("/assignments/upcoming", handler.UpcomingAssignments)
		api.GET("/notes/search", handler.SearchNotes)
	}
}
