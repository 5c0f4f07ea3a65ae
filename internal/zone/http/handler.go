package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

type Handler struct {
	service zone.Service
}

func NewHandler(service zone.Service) *Handler {
	return &Handler{service: service}
}

// ListByFacility returns every zone of a facility, main zones first.
func (h *Handler) ListByFacility(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	zones, err := h.service.ListByFacility(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewZoneListResponse(zones)})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	z, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewZoneResponse(z))
}

// CheckConflict reports whether the zone can be booked at the given date and slot.
func (h *Handler) CheckConflict(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body ConflictCheckRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	conflict, err := h.service.CheckConflict(c.Request.Context(), uri.ID, body.ParsedDate(), body.TimeSlot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ConflictCheckResponse{
		Available: conflict == nil,
		Conflict:  NewConflictResponse(conflict),
	})
}

// CheckMultiSlot validates a recurring request: one slot over several dates.
func (h *Handler) CheckMultiSlot(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body MultiSlotCheckRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	res, err := h.service.CheckMultiSlot(c.Request.Context(), uri.ID, body.ParsedDates(), body.TimeSlot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewMultiSlotResponse(res))
}

func (h *Handler) Alternatives(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q AlternativesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	zones, err := h.service.Alternatives(c.Request.Context(), uri.ID, q.ParsedDate(), q.TimeSlot, q.Capacity)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewZoneListResponse(zones)})
}

// AvailabilityStatus lists every zone of a facility with its status for one slot.
func (h *Handler) AvailabilityStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q SlotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	statuses, err := h.service.AvailabilityStatus(c.Request.Context(), uri.ID, q.ParsedDate(), q.TimeSlot)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AvailabilityStatusResponse, len(statuses))
	for i, st := range statuses {
		items[i] = NewAvailabilityStatusResponse(st)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Recommendations(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body RecommendationsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	zones, err := h.service.Recommendations(c.Request.Context(), uri.ID, body.Capacity, body.Equipment, body.ParsedDate(), body.TimeSlot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewZoneListResponse(zones)})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateZoneRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}
	bookable := true
	if body.BookableIndependently != nil {
		bookable = *body.BookableIndependently
	}

	z, err := h.service.Create(c.Request.Context(), zone.CreateRequest{
		FacilityID:            body.FacilityID,
		Name:                  body.Name,
		Type:                  zone.Type(body.Type),
		Capacity:              body.Capacity,
		PricePerHour:          body.PricePerHour,
		Equipment:             body.Equipment,
		Accessibility:         body.Accessibility,
		IsMainZone:            body.IsMainZone,
		ParentZoneID:          body.ParentZoneID,
		IsActive:              isActive,
		BookableIndependently: bookable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewZoneResponse(z))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body UpdateZoneRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := zone.UpdateRequest{
		Name:                  body.Name,
		Capacity:              body.Capacity,
		PricePerHour:          body.PricePerHour,
		ClearPricePerHour:     body.ClearPricePerHour,
		Equipment:             body.Equipment,
		Accessibility:         body.Accessibility,
		IsActive:              body.IsActive,
		BookableIndependently: body.BookableIndependently,
	}
	if body.Type != nil {
		t := zone.Type(*body.Type)
		req.Type = &t
	}

	z, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewZoneResponse(z))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AddConflictRule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body CreateConflictRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	rule, err := h.service.AddConflictRule(c.Request.Context(), zone.CreateRuleRequest{
		ZoneID:            uri.ID,
		ConflictingZoneID: body.ConflictingZoneID,
		Type:              zone.RuleType(body.Type),
		Description:       body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewConflictRuleResponse(*rule))
}

func (h *Handler) RemoveConflictRule(c *gin.Context) {
	var uri ConflictRuleURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.RemoveConflictRule(c.Request.Context(), uri.ID, uri.RuleID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
