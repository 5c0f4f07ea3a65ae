package suggestion

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

var (
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end must be after start")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrRangeTooLarge    = apperror.New(http.StatusBadRequest, "date range is too large")
	ErrNoTimeSlots      = apperror.New(http.StatusBadRequest, "at least one time slot is required")
)

// MaxHeatmapDays bounds a single heatmap request.
const MaxHeatmapDays = 62

// AlternativeZone is a zone the booking service proposes instead.
type AlternativeZone struct {
	ID       string
	Name     string
	Capacity int
}

// ConflictReport is what the booking service knows about a requested interval.
type ConflictReport struct {
	HasConflict  bool
	Conflicts    []zone.BookingConflict
	Alternatives []AlternativeZone
}

// RealTimeResult is a conflict report enriched with recommendations.
type RealTimeResult struct {
	HasConflict     bool
	Conflicts       []zone.BookingConflict
	Alternatives    []AlternativeZone
	Recommendations []string
	// Degraded is set when the booking service could not be reached.
	Degraded bool
}

type HeatmapDay struct {
	Date   time.Time
	Slots  map[string]bool
	Failed bool
}

// Heatmap holds per-day slot availability for one zone.
type Heatmap struct {
	ZoneID    string
	TimeSlots []string
	Days      []HeatmapDay
}

// AlternativeZoneSuggestion is a ranked alternative with a 0-100 match score.
type AlternativeZoneSuggestion struct {
	Zone   *zone.Zone
	Score  int
	Reason string
}
