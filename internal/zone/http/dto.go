package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

const dateLayout = "2006-01-02"

type ConflictRuleResponse struct {
	ID                string `json:"id"`
	ZoneID            string `json:"zone_id"`
	ConflictingZoneID string `json:"conflicting_zone_id"`
	Type              string `json:"type"`
	Description       string `json:"description"`
}

type ZoneResponse struct {
	ID                    string                 `json:"id"`
	FacilityID            string                 `json:"facility_id"`
	Name                  string                 `json:"name"`
	Type                  string                 `json:"type"`
	Capacity              int                    `json:"capacity"`
	PricePerHour          *float64               `json:"price_per_hour"`
	Equipment             []string               `json:"equipment"`
	Accessibility         []string               `json:"accessibility"`
	IsMainZone            bool                   `json:"is_main_zone"`
	ParentZoneID          *string                `json:"parent_zone_id"`
	SubZones              []string               `json:"sub_zones"`
	IsActive              bool                   `json:"is_active"`
	BookableIndependently bool                   `json:"bookable_independently"`
	ConflictRules         []ConflictRuleResponse `json:"conflict_rules"`
	CreatedAt             time.Time              `json:"created_at"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func NewConflictRuleResponse(r zone.ConflictRule) ConflictRuleResponse {
	return ConflictRuleResponse{
		ID:                r.ID,
		ZoneID:            r.ZoneID,
		ConflictingZoneID: r.ConflictingZoneID,
		Type:              string(r.Type),
		Description:       r.Description,
	}
}

func NewZoneResponse(z *zone.Zone) ZoneResponse {
	rules := make([]ConflictRuleResponse, len(z.ConflictRules))
	for i, r := range z.ConflictRules {
		rules[i] = NewConflictRuleResponse(r)
	}
	return ZoneResponse{
		ID:                    z.ID,
		FacilityID:            z.FacilityID,
		Name:                  z.Name,
		Type:                  string(z.Type),
		Capacity:              z.Capacity,
		PricePerHour:          z.PricePerHour,
		Equipment:             nonNil(z.Equipment),
		Accessibility:         nonNil(z.Accessibility),
		IsMainZone:            z.IsMainZone,
		ParentZoneID:          z.ParentZoneID,
		SubZones:              nonNil(z.SubZones),
		IsActive:              z.IsActive,
		BookableIndependently: z.BookableIndependently,
		ConflictRules:         rules,
		CreatedAt:             z.CreatedAt,
	}
}

func NewZoneListResponse(zones []*zone.Zone) []ZoneResponse {
	items := make([]ZoneResponse, len(zones))
	for i, z := range zones {
		items[i] = NewZoneResponse(z)
	}
	return items
}

type ConflictResponse struct {
	ConflictType         string `json:"conflict_type"`
	ConflictingBookingID string `json:"conflicting_booking_id"`
	ConflictingZoneID    string `json:"conflicting_zone_id"`
	ConflictingZoneName  string `json:"conflicting_zone_name"`
	TimeSlot             string `json:"time_slot"`
	Date                 string `json:"date"`
	BookedBy             string `json:"booked_by"`
}

func NewConflictResponse(c *zone.BookingConflict) *ConflictResponse {
	if c == nil {
		return nil
	}
	return &ConflictResponse{
		ConflictType:         string(c.ConflictType),
		ConflictingBookingID: c.ConflictingBookingID,
		ConflictingZoneID:    c.ConflictingZoneID,
		ConflictingZoneName:  c.ConflictingZoneName,
		TimeSlot:             c.TimeSlot,
		Date:                 c.Date.Format(dateLayout),
		BookedBy:             c.BookedBy,
	}
}

// ConflictCheckResponse is returned by the single-slot conflict check.
type ConflictCheckResponse struct {
	Available bool              `json:"available"`
	Conflict  *ConflictResponse `json:"conflict"`
}

type MultiSlotResponse struct {
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

func NewMultiSlotResponse(r *zone.MultiSlotResult) MultiSlotResponse {
	conflicts := make([]ConflictResponse, len(r.Conflicts))
	for i := range r.Conflicts {
		conflicts[i] = *NewConflictResponse(&r.Conflicts[i])
	}
	return MultiSlotResponse{Available: r.Available, Conflicts: conflicts}
}

type AvailabilityStatusResponse struct {
	ZoneID         string            `json:"zone_id"`
	IsAvailable    bool              `json:"is_available"`
	ConflictReason *string           `json:"conflict_reason"`
	Conflict       *ConflictResponse `json:"conflict,omitempty"`
}

func NewAvailabilityStatusResponse(st zone.AvailabilityStatus) AvailabilityStatusResponse {
	resp := AvailabilityStatusResponse{
		ZoneID:      st.ZoneID,
		IsAvailable: st.IsAvailable,
		Conflict:    NewConflictResponse(st.Conflict),
	}
	if st.ConflictReason != "" {
		reason := string(st.ConflictReason)
		resp.ConflictReason = &reason
	}
	return resp
}

// SlotQuery is the (date, slot) pair shared by the read-only checks.
type SlotQuery struct {
	Date     string `form:"date" json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot string `form:"time_slot" json:"time_slot" binding:"required"`
}

func (q SlotQuery) ParsedDate() time.Time {
	// Format is guaranteed by the datetime binding.
	d, _ := time.Parse(dateLayout, q.Date)
	return d
}

type ConflictCheckRequest struct {
	SlotQuery
}

type MultiSlotCheckRequest struct {
	Dates    []string `json:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
	TimeSlot string   `json:"time_slot" binding:"required"`
}

func (r MultiSlotCheckRequest) ParsedDates() []time.Time {
	out := make([]time.Time, len(r.Dates))
	for i, s := range r.Dates {
		out[i], _ = time.Parse(dateLayout, s)
	}
	return out
}

type AlternativesRequest struct {
	SlotQuery
	Capacity int `form:"capacity" binding:"min=0"`
}

type RecommendationsRequest struct {
	SlotQuery
	Capacity  int      `json:"capacity" binding:"min=0"`
	Equipment []string `json:"equipment"`
}

type CreateZoneRequest struct {
	FacilityID            string   `json:"facility_id" binding:"required,uuid"`
	Name                  string   `json:"name" binding:"required"`
	Type                  string   `json:"type" binding:"required,oneof=court room area section"`
	Capacity              int      `json:"capacity" binding:"required,min=1"`
	PricePerHour          *float64 `json:"price_per_hour" binding:"omitempty,min=0"`
	Equipment             []string `json:"equipment"`
	Accessibility         []string `json:"accessibility"`
	IsMainZone            bool     `json:"is_main_zone"`
	ParentZoneID          *string  `json:"parent_zone_id" binding:"omitempty,uuid"`
	IsActive              *bool    `json:"is_active"`
	BookableIndependently *bool    `json:"bookable_independently"`
}

type UpdateZoneRequest struct {
	Name                  *string   `json:"name"`
	Type                  *string   `json:"type" binding:"omitempty,oneof=court room area section"`
	Capacity              *int      `json:"capacity" binding:"omitempty,min=1"`
	PricePerHour          *float64  `json:"price_per_hour" binding:"omitempty,min=0"`
	ClearPricePerHour     bool      `json:"clear_price_per_hour"`
	Equipment             *[]string `json:"equipment"`
	Accessibility         *[]string `json:"accessibility"`
	IsActive              *bool     `json:"is_active"`
	BookableIndependently *bool     `json:"bookable_independently"`
}

type CreateConflictRuleRequest struct {
	ConflictingZoneID string `json:"conflicting_zone_id" binding:"required,uuid"`
	Type              string `json:"type" binding:"omitempty,oneof=mutually_exclusive"`
	Description       string `json:"description"`
}

type ConflictRuleURI struct {
	ID     string `uri:"id" binding:"required,uuid"`
	RuleID string `uri:"rule_id" binding:"required,uuid"`
}
