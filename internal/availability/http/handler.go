package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-booking-backend/internal/availability"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
	loc     *time.Location
}

func NewHandler(service availability.Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) bind(c *gin.Context) (string, TableQuery, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return "", TableQuery{}, false
	}
	var q TableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return "", TableQuery{}, false
	}
	return uri.ID, q, true
}

// Table returns the five-day availability grid of a facility.
func (h *Handler) Table(c *gin.Context) {
	id, q, ok := h.bind(c)
	if !ok {
		return
	}

	t, err := h.service.Table(c.Request.Context(), id, q.StartDate(h.loc), q.TimeSlots)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTableResponse(t))
}

// PDF returns the same grid as a printable document.
func (h *Handler) PDF(c *gin.Context) {
	id, q, ok := h.bind(c)
	if !ok {
		return
	}

	start := q.StartDate(h.loc)
	out, err := h.service.PDF(c.Request.Context(), id, start, q.TimeSlots)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=availability-%s.pdf", start.Format(dateLayout)))
	c.Data(http.StatusOK, "application/pdf", out)
}
