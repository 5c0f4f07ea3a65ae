package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	fac := g.Group("/facilities/:id")
	{
		fac.GET("/availability", h.Table)
		fac.GET("/availability.pdf", h.PDF)
	}
}
