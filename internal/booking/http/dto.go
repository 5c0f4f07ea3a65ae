package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	zoneHttp "github.com/nekogravitycat/facility-booking-backend/internal/zone/http"
)

const dateLayout = "2006-01-02"

func parseDate(s string) time.Time {
	// Bindings already validated the layout.
	d, _ := time.Parse(dateLayout, s)
	return d
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ZoneID     string `form:"zone_id" binding:"omitempty,uuid"`
	FacilityID string `form:"facility_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	UserID     string `form:"user_id"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=date created_at status price"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.DateFrom != "" && r.DateTo != "" && parseDate(r.DateFrom).After(parseDate(r.DateTo)) {
		return booking.ErrInvalidDateRange
	}
	return nil
}

func (r *ListBookingsRequest) dateBounds() (*time.Time, *time.Time) {
	var from, to *time.Time
	if r.DateFrom != "" {
		d := parseDate(r.DateFrom)
		from = &d
	}
	if r.DateTo != "" {
		d := parseDate(r.DateTo)
		to = &d
	}
	return from, to
}

type CreateBookingRequest struct {
	ZoneID     string   `json:"zone_id" binding:"required,uuid"`
	Date       string   `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot   string   `json:"time_slot" binding:"required"`
	BookedBy   string   `json:"booked_by" binding:"required"`
	UserGroups []string `json:"user_groups"`
}

type CreateRecurringBookingRequest struct {
	ZoneID     string   `json:"zone_id" binding:"required,uuid"`
	Dates      []string `json:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
	TimeSlot   string   `json:"time_slot" binding:"required"`
	BookedBy   string   `json:"booked_by" binding:"required"`
	UserGroups []string `json:"user_groups"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type ZoneTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID           string    `json:"id"`
	Zone         ZoneTag   `json:"zone"`
	FacilityID   string    `json:"facility_id"`
	UserID       string    `json:"user_id"`
	BookedBy     string    `json:"booked_by"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	RecurrenceID *string   `json:"recurrence_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		Zone:         ZoneTag{ID: b.ZoneID, Name: b.ZoneName},
		FacilityID:   b.FacilityID,
		UserID:       b.UserID,
		BookedBy:     b.BookedBy,
		Date:         b.Date.Format(dateLayout),
		TimeSlot:     b.TimeSlot,
		Price:        b.Price,
		Status:       string(b.Status),
		RecurrenceID: b.RecurrenceID,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}

// ConflictErrorResponse is the 409 body when the resolver rejects a booking.
type ConflictErrorResponse struct {
	Error     string                      `json:"error"`
	Kind      apperror.Kind               `json:"kind"`
	Conflicts []zoneHttp.ConflictResponse `json:"conflicts"`
}

func NewConflictErrorResponse(e *booking.ConflictError) ConflictErrorResponse {
	out := ConflictErrorResponse{
		Error:     e.Error(),
		Kind:      apperror.KindOf(e),
		Conflicts: make([]zoneHttp.ConflictResponse, 0, len(e.Conflicts)),
	}
	for i := range e.Conflicts {
		out.Conflicts = append(out.Conflicts, *zoneHttp.NewConflictResponse(&e.Conflicts[i]))
	}
	return out
}

// UnavailableDateResponse is the 422 body when the calendar rejects a date.
type UnavailableDateResponse struct {
	Error   string        `json:"error"`
	Kind    apperror.Kind `json:"kind"`
	Date    string        `json:"date"`
	Reason  string        `json:"reason"`
	Details string        `json:"details"`
}
