package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pricing"
)

const dateLayout = "2006-01-02"

type PricingRuleResponse struct {
	ID            string    `json:"id"`
	FacilityID    string    `json:"facility_id"`
	ZoneID        *string   `json:"zone_id"`
	Name          string    `json:"name"`
	Priority      int       `json:"priority"`
	IsActive      bool      `json:"is_active"`
	DaysOfWeek    []int     `json:"days_of_week"`
	StartTime     *string   `json:"start_time"`
	EndTime       *string   `json:"end_time"`
	ValidFrom     *string   `json:"valid_from"`
	ValidTo       *string   `json:"valid_to"`
	UserGroups    []string  `json:"user_groups"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	IsExclusive   bool      `json:"is_exclusive"`
	CreatedAt     time.Time `json:"created_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	// Format is guaranteed by the datetime binding.
	t, _ := time.Parse(dateLayout, *s)
	return &t
}

func NewPricingRuleResponse(r *pricing.PricingRule) PricingRuleResponse {
	days := r.DaysOfWeek
	if days == nil {
		days = []int{}
	}
	groups := r.UserGroups
	if groups == nil {
		groups = []string{}
	}
	return PricingRuleResponse{
		ID:            r.ID,
		FacilityID:    r.FacilityID,
		ZoneID:        r.ZoneID,
		Name:          r.Name,
		Priority:      r.Priority,
		IsActive:      r.IsActive,
		DaysOfWeek:    days,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		ValidFrom:     formatDate(r.ValidFrom),
		ValidTo:       formatDate(r.ValidTo),
		UserGroups:    groups,
		DiscountType:  string(r.DiscountType),
		DiscountValue: r.DiscountValue,
		IsExclusive:   r.IsExclusive,
		CreatedAt:     r.CreatedAt,
	}
}

type ListPricingRulesRequest struct {
	request.ListParams
	FacilityID string `form:"facility_id" binding:"omitempty,uuid"`
	ZoneID     string `form:"zone_id" binding:"omitempty,uuid"`
	IsActive   *bool  `form:"is_active"`
}

type CreatePricingRuleRequest struct {
	FacilityID    string   `json:"facility_id" binding:"required,uuid"`
	ZoneID        *string  `json:"zone_id" binding:"omitempty,uuid"`
	Name          string   `json:"name" binding:"required"`
	Priority      int      `json:"priority"`
	IsActive      *bool    `json:"is_active"`
	DaysOfWeek    []int    `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	StartTime     *string  `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime       *string  `json:"end_time" binding:"omitempty,datetime=15:04"`
	ValidFrom     *string  `json:"valid_from" binding:"omitempty,datetime=2006-01-02"`
	ValidTo       *string  `json:"valid_to" binding:"omitempty,datetime=2006-01-02"`
	UserGroups    []string `json:"user_groups"`
	DiscountType  string   `json:"discount_type" binding:"required,oneof=percentage fixed override"`
	DiscountValue float64  `json:"discount_value"`
	IsExclusive   bool     `json:"is_exclusive"`
}

type UpdatePricingRuleRequest struct {
	Name          *string   `json:"name" binding:"omitempty,min=1"`
	ZoneID        *string   `json:"zone_id" binding:"omitempty,uuid"`
	ClearZoneID   bool      `json:"clear_zone_id"`
	Priority      *int      `json:"priority"`
	IsActive      *bool     `json:"is_active"`
	DaysOfWeek    *[]int    `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	StartTime     *string   `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime       *string   `json:"end_time" binding:"omitempty,datetime=15:04"`
	ClearTimes    bool      `json:"clear_times"`
	ValidFrom     *string   `json:"valid_from" binding:"omitempty,datetime=2006-01-02"`
	ValidTo       *string   `json:"valid_to" binding:"omitempty,datetime=2006-01-02"`
	ClearValidity bool      `json:"clear_validity"`
	UserGroups    *[]string `json:"user_groups"`
	DiscountType  *string   `json:"discount_type" binding:"omitempty,oneof=percentage fixed override"`
	DiscountValue *float64  `json:"discount_value"`
	IsExclusive   *bool     `json:"is_exclusive"`
}

type CalculatePriceRequest struct {
	FacilityID string    `json:"facility_id" binding:"required,uuid"`
	ZoneID     string    `json:"zone_id" binding:"omitempty,uuid"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	UserGroups []string  `json:"user_groups"`
}

type AppliedRuleResponse struct {
	RuleID        string  `json:"rule_id"`
	Name          string  `json:"name"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	PriceBefore   float64 `json:"price_before"`
	PriceAfter    float64 `json:"price_after"`
}

type QuoteResponse struct {
	HourlyRate    float64               `json:"hourly_rate"`
	DurationHours float64               `json:"duration_hours"`
	BasePrice     float64               `json:"base_price"`
	FinalPrice    float64               `json:"final_price"`
	AppliedRules  []AppliedRuleResponse `json:"applied_rules"`
}

func NewQuoteResponse(q *pricing.Quote) QuoteResponse {
	applied := make([]AppliedRuleResponse, len(q.AppliedRules))
	for i, a := range q.AppliedRules {
		applied[i] = AppliedRuleResponse{
			RuleID:        a.Rule.ID,
			Name:          a.Rule.Name,
			DiscountType:  string(a.Rule.DiscountType),
			DiscountValue: a.Rule.DiscountValue,
			PriceBefore:   a.PriceBefore,
			PriceAfter:    a.PriceAfter,
		}
	}
	return QuoteResponse{
		HourlyRate:    q.HourlyRate,
		DurationHours: q.DurationHours,
		BasePrice:     q.BasePrice,
		FinalPrice:    q.FinalPrice,
		AppliedRules:  applied,
	}
}
