package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers facility routes. Reads are public, writes are admin only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/facilities")

	// === Public Routes ===
	group.GET("", h.List)    // List facilities
	group.GET("/:id", h.Get) // Get facility details

	// === Admin Routes ===
	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)       // Create facility
		admin.PATCH("/:id", h.Update)  // Update facility
		admin.DELETE("/:id", h.Delete) // Delete facility
	}
}
