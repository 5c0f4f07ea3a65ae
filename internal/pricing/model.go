package pricing

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "pricing rule not found")
	ErrFacilityNotFound     = apperror.New(http.StatusNotFound, "facility not found")
	ErrZoneNotFound         = apperror.New(http.StatusNotFound, "zone not found")
	ErrZoneFacilityMismatch = apperror.New(http.StatusBadRequest, "zone does not belong to facility")
	ErrInvalidTimeRange     = apperror.New(http.StatusBadRequest, "end must be after start")
	ErrInvalidDiscountType  = apperror.New(http.StatusBadRequest, "invalid discount type")
	ErrInvalidDiscountValue = apperror.New(http.StatusBadRequest, "invalid discount value")
	ErrInvalidDayOfWeek     = apperror.New(http.StatusBadRequest, "days of week must be between 0 and 6")
	ErrInvalidTimeWindow    = apperror.New(http.StatusBadRequest, "invalid rule time window")
	ErrInvalidValidity      = apperror.New(http.StatusBadRequest, "valid_from must not be after valid_to")
	ErrNameRequired         = apperror.New(http.StatusBadRequest, "name is required")
)

// DiscountType selects how a rule changes the running price.
type DiscountType string

const (
	// DiscountPercentage subtracts a share of the running price. Negative values surcharge.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed subtracts a flat amount. Negative values surcharge.
	DiscountFixed DiscountType = "fixed"
	// DiscountOverride replaces the running price with value × hours.
	DiscountOverride DiscountType = "override"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed || t == DiscountOverride
}

// PricingRule is a conditional price adjustment. Nil or empty conditions always match.
type PricingRule struct {
	ID            string
	FacilityID    string
	ZoneID        *string // nil applies facility-wide
	Name          string
	Priority      int // higher is evaluated first
	IsActive      bool
	DaysOfWeek    []int   // 0=Sunday..6=Saturday
	StartTime     *string // HH:MM
	EndTime       *string // HH:MM
	ValidFrom     *time.Time
	ValidTo       *time.Time
	UserGroups    []string
	DiscountType  DiscountType
	DiscountValue float64
	IsExclusive   bool // stop evaluating once applied
	CreatedAt     time.Time
}

// AppliedRule records one rule that changed the price.
type AppliedRule struct {
	Rule        *PricingRule
	PriceBefore float64
	PriceAfter  float64
}

// Quote is the outcome of a price calculation.
type Quote struct {
	HourlyRate    float64
	DurationHours float64
	BasePrice     float64 // HourlyRate × DurationHours
	FinalPrice    float64
	AppliedRules  []AppliedRule
}

// Filter defines parameters for listing pricing rules.
type Filter struct {
	FacilityID string
	ZoneID     string
	IsActive   *bool
	Page       int
	PageSize   int
}
