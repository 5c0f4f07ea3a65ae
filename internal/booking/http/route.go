package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/recurring", h.CreateRecurring)
		group.PATCH("/:id/status", h.UpdateStatus)
		group.DELETE("/:id", h.Cancel) // soft: marks the booking cancelled
	}
}
