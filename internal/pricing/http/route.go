package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	g.POST("/pricing/calculate", h.Calculate)

	// === Admin Routes ===
	admin := g.Group("/pricing-rules", authMiddleware, adminMiddleware)
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
