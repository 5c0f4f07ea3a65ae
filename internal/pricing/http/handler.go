package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/facility-booking-backend/internal/pricing"
)

type Handler struct {
	service pricing.Service
}

func NewHandler(service pricing.Service) *Handler {
	return &Handler{service: service}
}

// Calculate prices a prospective booking without persisting anything.
func (h *Handler) Calculate(c *gin.Context) {
	var body CalculatePriceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	q, err := h.service.CalculatePrice(c.Request.Context(), pricing.CalculateRequest{
		FacilityID: body.FacilityID,
		ZoneID:     body.ZoneID,
		Start:      body.Start,
		End:        body.End,
		UserGroups: body.UserGroups,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewQuoteResponse(q))
}

func (h *Handler) List(c *gin.Context) {
	var req ListPricingRulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	rules, total, err := h.service.List(c.Request.Context(), pricing.Filter{
		FacilityID: req.FacilityID,
		ZoneID:     req.ZoneID,
		IsActive:   req.IsActive,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PricingRuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewPricingRuleResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	rule, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPricingRuleResponse(rule))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreatePricingRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	rule, err := h.service.Create(c.Request.Context(), pricing.CreateRequest{
		FacilityID:    body.FacilityID,
		ZoneID:        body.ZoneID,
		Name:          body.Name,
		Priority:      body.Priority,
		IsActive:      isActive,
		DaysOfWeek:    body.DaysOfWeek,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		ValidFrom:     parseDate(body.ValidFrom),
		ValidTo:       parseDate(body.ValidTo),
		UserGroups:    body.UserGroups,
		DiscountType:  pricing.DiscountType(body.DiscountType),
		DiscountValue: body.DiscountValue,
		IsExclusive:   body.IsExclusive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPricingRuleResponse(rule))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body UpdatePricingRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := pricing.UpdateRequest{
		Name:          body.Name,
		ZoneID:        body.ZoneID,
		ClearZoneID:   body.ClearZoneID,
		Priority:      body.Priority,
		IsActive:      body.IsActive,
		DaysOfWeek:    body.DaysOfWeek,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		ClearTimes:    body.ClearTimes,
		ValidFrom:     parseDate(body.ValidFrom),
		ValidTo:       parseDate(body.ValidTo),
		ClearValidity: body.ClearValidity,
		UserGroups:    body.UserGroups,
		DiscountValue: body.DiscountValue,
		IsExclusive:   body.IsExclusive,
	}
	if body.DiscountType != nil {
		dt := pricing.DiscountType(*body.DiscountType)
		req.DiscountType = &dt
	}

	rule, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPricingRuleResponse(rule))
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
