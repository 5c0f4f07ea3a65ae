package facility

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "facility not found")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name is required")
	ErrInvalidPrice        = apperror.New(http.StatusBadRequest, "price per hour cannot be negative")
	ErrInvalidOpeningHours = apperror.New(http.StatusBadRequest, "invalid opening hours")
)

// Facility is a bookable municipal venue (gym, hall, meeting house).
// PricePerHour is the default rate used when a zone has no rate of its own.
type Facility struct {
	ID                string
	Name              string
	Address           string
	Description       string
	PricePerHour      float64
	OpeningHoursStart string // Format: HH:MM
	OpeningHoursEnd   string // Format: HH:MM
	IsActive          bool
	CreatedAt         time.Time
}

// Filter defines parameters for listing facilities.
type Filter struct {
	Name     string // Search in Name or Address
	IsActive *bool
	Page     int
	PageSize int
}
