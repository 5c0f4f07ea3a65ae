package zone

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "zone not found")
	ErrFacilityNotFound    = apperror.New(http.StatusNotFound, "facility not found")
	ErrRuleNotFound        = apperror.New(http.StatusNotFound, "conflict rule not found")
	ErrInvalidHierarchy    = apperror.New(http.StatusUnprocessableEntity, "invalid zone hierarchy")
	ErrEmptyName           = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidType         = apperror.New(http.StatusBadRequest, "invalid zone type")
	ErrInvalidCapacity     = apperror.New(http.StatusBadRequest, "capacity must be greater than 0")
	ErrInvalidPrice        = apperror.New(http.StatusBadRequest, "price per hour cannot be negative")
	ErrInvalidTimeSlot     = apperror.New(http.StatusBadRequest, "time slot cannot be empty")
	ErrNoDates             = apperror.New(http.StatusBadRequest, "at least one date is required")
	ErrSelfConflict        = apperror.New(http.StatusBadRequest, "a zone cannot conflict with itself")
	ErrDuplicateRule       = apperror.New(http.StatusConflict, "conflict rule already exists")
	ErrHasSubZones         = apperror.New(http.StatusConflict, "zone still has sub-zones")
	ErrHasBookings         = apperror.New(http.StatusConflict, "zone still has bookings")
	ErrInvalidRuleType     = apperror.New(http.StatusBadRequest, "invalid conflict rule type")
	ErrCrossFacilityParent = apperror.New(http.StatusUnprocessableEntity, "parent zone belongs to another facility")
)

// Type classifies the physical kind of a zone.
type Type string

const (
	TypeCourt   Type = "court"
	TypeRoom    Type = "room"
	TypeArea    Type = "area"
	TypeSection Type = "section"
)

// ValidTypes lists every accepted zone type.
var ValidTypes = []Type{TypeCourt, TypeRoom, TypeArea, TypeSection}

// IsValid reports whether t is one of ValidTypes.
func (t Type) IsValid() bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// RuleType is the kind of an explicit conflict rule between two zones.
type RuleType string

const RuleMutuallyExclusive RuleType = "mutually_exclusive"

// ConflictRule is an admin-declared conflict between two peer zones.
type ConflictRule struct {
	ID                string
	ZoneID            string
	ConflictingZoneID string
	Type              RuleType
	Description       string
}

// Zone is a bookable part of a facility. A main zone represents the whole
// facility and owns its sub-zones; a sub-zone points at exactly one main zone.
type Zone struct {
	ID                    string
	FacilityID            string
	Name                  string
	Type                  Type
	Capacity              int
	PricePerHour          *float64 // nil inherits the facility rate
	Equipment             []string
	Accessibility         []string
	IsMainZone            bool
	ParentZoneID          *string
	SubZones              []string
	IsActive              bool
	ConflictRules         []ConflictRule
	BookableIndependently bool
	CreatedAt             time.Time
}

// ExistingBooking is the read-only view of a booking the resolver checks against.
type ExistingBooking struct {
	ID       string
	ZoneID   string
	Date     time.Time
	TimeSlot string
	BookedBy string
}

// ConflictType classifies a detected conflict.
type ConflictType string

const (
	ConflictZone          ConflictType = "zone-conflict"
	ConflictSubZone       ConflictType = "sub-zone-conflict"
	ConflictWholeFacility ConflictType = "whole-facility-conflict"
	ConflictPeerZone      ConflictType = "peer-zone-conflict"
)

// BookingConflict describes why a requested (zone, date, slot) cannot be booked.
type BookingConflict struct {
	ConflictType         ConflictType
	ConflictingBookingID string
	ConflictingZoneID    string
	ConflictingZoneName  string
	TimeSlot             string
	Date                 time.Time
	BookedBy             string
}

// ConflictReason is the availability status reason shown per zone.
type ConflictReason string

const (
	ReasonBooked              ConflictReason = "booked"
	ReasonWholeFacilityBooked ConflictReason = "whole-facility-booked"
	ReasonSubZoneConflict     ConflictReason = "sub-zone-conflict"
	ReasonPeerZoneConflict    ConflictReason = "peer-zone-conflict"
	ReasonMaintenance         ConflictReason = "maintenance"
)

// AvailabilityStatus is the per-zone result of ZoneAvailabilityStatus.
type AvailabilityStatus struct {
	ZoneID         string
	IsAvailable    bool
	ConflictReason ConflictReason // empty when available
	Conflict       *BookingConflict
}

// MultiSlotResult is the outcome of checking one slot across several dates.
type MultiSlotResult struct {
	Available bool
	Conflicts []BookingConflict
}
