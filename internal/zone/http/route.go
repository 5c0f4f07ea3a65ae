package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers zone routes and the facility-scoped zone queries.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// === Facility scoped (public) ===
	fac := g.Group("/facilities/:id")
	{
		fac.GET("/zones", h.ListByFacility)             // All zones of a facility
		fac.GET("/zone-status", h.AvailabilityStatus)   // Per-zone status for one slot
		fac.POST("/recommendations", h.Recommendations) // Ranked zones for a request
	}

	group := g.Group("/zones")

	// === Public Routes ===
	group.GET("/:id", h.Get)
	group.POST("/:id/conflict-check", h.CheckConflict)
	group.POST("/:id/multi-slot-check", h.CheckMultiSlot)
	group.GET("/:id/alternatives", h.Alternatives)

	// === Admin Routes ===
	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/conflict-rules", h.AddConflictRule)
		admin.DELETE("/:id/conflict-rules/:rule_id", h.RemoveConflictRule)
	}
}
