package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
)

// ListFacilitiesRequest defines query parameters for listing facilities.
type ListFacilitiesRequest struct {
	request.ListParams
	Q        string `form:"q"`
	IsActive *bool  `form:"is_active"`
}

type FacilityResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Description       string    `json:"description"`
	PricePerHour      float64   `json:"price_per_hour"`
	OpeningHoursStart string    `json:"opening_hours_start"`
	OpeningHoursEnd   string    `json:"opening_hours_end"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// FacilityTag is the compact facility reference embedded in other responses.
type FacilityTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewFacilityResponse(f *facility.Facility) FacilityResponse {
	return FacilityResponse{
		ID:                f.ID,
		Name:              f.Name,
		Address:           f.Address,
		Description:       f.Description,
		PricePerHour:      f.PricePerHour,
		OpeningHoursStart: f.OpeningHoursStart,
		OpeningHoursEnd:   f.OpeningHoursEnd,
		IsActive:          f.IsActive,
		CreatedAt:         f.CreatedAt,
	}
}

type CreateFacilityRequest struct {
	Name              string  `json:"name" binding:"required"`
	Address           string  `json:"address"`
	Description       string  `json:"description"`
	PricePerHour      float64 `json:"price_per_hour" binding:"min=0"`
	OpeningHoursStart string  `json:"opening_hours_start" binding:"required"`
	OpeningHoursEnd   string  `json:"opening_hours_end" binding:"required"`
	IsActive          *bool   `json:"is_active"`
}

type UpdateFacilityRequest struct {
	Name              *string  `json:"name"`
	Address           *string  `json:"address"`
	Description       *string  `json:"description"`
	PricePerHour      *float64 `json:"price_per_hour" binding:"omitempty,min=0"`
	OpeningHoursStart *string  `json:"opening_hours_start"`
	OpeningHoursEnd   *string  `json:"opening_hours_end"`
	IsActive          *bool    `json:"is_active"`
}
