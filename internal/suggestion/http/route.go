package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/zones/:id")
	{
		group.GET("/realtime-conflicts", h.RealTimeConflicts)
		group.GET("/heatmap", h.Heatmap)
		group.GET("/suggestions", h.Suggestions)

		// Booking lookup contract
		group.GET("/conflicts", h.Conflicts)
		group.POST("/availability", h.Availability)
	}
}
