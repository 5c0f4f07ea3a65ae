package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/facility-booking-backend/internal/suggestion"
)

type Handler struct {
	service suggestion.Service
	// local serves the booking lookup contract for other instances.
	local suggestion.BookingLookup
}

func NewHandler(service suggestion.Service, local suggestion.BookingLookup) *Handler {
	return &Handler{service: service, local: local}
}

// RealTimeConflicts checks an interval against live bookings and adds recommendations.
func (h *Handler) RealTimeConflicts(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q IntervalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	res, err := h.service.CheckRealTimeConflicts(c.Request.Context(), uri.ID, q.Start, q.End)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRealTimeResponse(res))
}

func (h *Handler) Heatmap(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q HeatmapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	start, end := q.Dates()
	hm, err := h.service.AvailabilityHeatmap(c.Request.Context(), uri.ID, start, end, q.TimeSlots)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewHeatmapResponse(hm))
}

func (h *Handler) Suggestions(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q SuggestionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	items, err := h.service.SuggestZones(c.Request.Context(), uri.ID, q.ParsedDate(), q.TimeSlot, q.Capacity, q.Equipment)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewSuggestionListResponse(items)})
}

// Conflicts serves the booking lookup conflict query.
func (h *Handler) Conflicts(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q IntervalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	report, err := h.local.ConflictingBookings(c.Request.Context(), uri.ID, q.Start, q.End)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion.NewWireConflictReport(report))
}

// Availability serves the booking lookup per-slot availability query.
func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body suggestion.WireAvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	date, _ := time.Parse(dateLayout, body.Date)
	avail, err := h.local.CheckAvailability(c.Request.Context(), uri.ID, date, body.TimeSlots)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion.WireAvailabilityResponse{Availability: avail})
}
