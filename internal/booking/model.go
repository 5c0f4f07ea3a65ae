package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/holiday"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrZoneNotFound     = apperror.New(http.StatusNotFound, "zone not found")
	ErrSlotTaken        = apperror.New(http.StatusConflict, "time slot already booked")
	ErrConflict         = apperror.New(http.StatusConflict, "zone is not available for the requested time")
	ErrInvalidTimeSlot  = apperror.New(http.StatusBadRequest, "invalid time slot")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrDateUnavailable  = apperror.New(http.StatusUnprocessableEntity, "date is not bookable")
	ErrZoneInactive     = apperror.New(http.StatusUnprocessableEntity, "zone is closed for booking")
	ErrZoneNotBookable  = apperror.New(http.StatusUnprocessableEntity, "zone cannot be booked on its own")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrAlreadyCancelled = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrNoDates          = apperror.New(http.StatusBadRequest, "at least one date is required")
	ErrTooManyDates     = apperror.New(http.StatusBadRequest, "too many dates in one recurring booking")
	ErrBookedByRequired = apperror.New(http.StatusBadRequest, "booked_by cannot be empty")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "date_from must not be after date_to")
)

// MaxRecurringDates caps how many occurrences one recurring request may create.
const MaxRecurringDates = 52

// ConflictError is returned when the resolver rejects a request. It matches
// ErrConflict under errors.Is.
type ConflictError struct {
	Conflicts []zone.BookingConflict
}

func (e *ConflictError) Error() string {
	return ErrConflict.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// UnavailableDateError names a requested date the calendar rejects. It
// matches ErrDateUnavailable under errors.Is.
type UnavailableDateError struct {
	Date    time.Time
	Reason  holiday.Reason
	Details string
}

func (e *UnavailableDateError) Error() string {
	return ErrDateUnavailable.Message + ": " + e.Date.Format("2006-01-02") + " (" + e.Details + ")"
}

func (e *UnavailableDateError) Unwrap() error {
	return ErrDateUnavailable
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking reserves one zone for one time slot on one date.
type Booking struct {
	ID           string
	ZoneID       string
	ZoneName     string
	FacilityID   string
	UserID       string
	BookedBy     string // organisation or person shown to other users
	Date         time.Time
	TimeSlot     string
	Price        float64
	Status       Status
	RecurrenceID *string // shared by every occurrence of a recurring booking
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Filter struct {
	UserID     string
	ZoneID     string
	FacilityID string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
