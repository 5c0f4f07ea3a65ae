package suggestion

import (
	"context"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

// BookingLookup is the booking service the engine asks for live data.
type BookingLookup interface {
	ConflictingBookings(ctx context.Context, zoneID string, start, end time.Time) (*ConflictReport, error)
	CheckAvailability(ctx context.Context, zoneID string, date time.Time, slots []string) (map[string]bool, error)
}

// LocalLookup answers lookups in process from the zone resolver.
type LocalLookup struct {
	zones zone.Service
	loc   *time.Location
}

func NewLocalLookup(zones zone.Service, loc *time.Location) *LocalLookup {
	if loc == nil {
		loc = time.UTC
	}
	return &LocalLookup{zones: zones, loc: loc}
}

func (l *LocalLookup) ConflictingBookings(ctx context.Context, zoneID string, start, end time.Time) (*ConflictReport, error) {
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}
	start, end = start.In(l.loc), end.In(l.loc)
	slot := zone.FormatSlot(start, end)
	y, m, d := start.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	conflict, err := l.zones.CheckConflict(ctx, zoneID, date, slot)
	if err != nil {
		return nil, err
	}

	report := &ConflictReport{
		Conflicts:    []zone.BookingConflict{},
		Alternatives: []AlternativeZone{},
	}
	if conflict == nil {
		return report, nil
	}
	report.HasConflict = true
	report.Conflicts = append(report.Conflicts, *conflict)

	alts, err := l.zones.Alternatives(ctx, zoneID, date, slot, 0)
	if err != nil {
		return nil, err
	}
	for _, z := range alts {
		report.Alternatives = append(report.Alternatives, AlternativeZone{ID: z.ID, Name: z.Name, Capacity: z.Capacity})
	}
	return report, nil
}

func (l *LocalLookup) CheckAvailability(ctx context.Context, zoneID string, date time.Time, slots []string) (map[string]bool, error) {
	z, err := l.zones.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	r, err := l.zones.Snapshot(ctx, z.FacilityID, []time.Time{date})
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(slots))
	for _, slot := range slots {
		out[slot] = z.IsActive && r.CheckZoneConflict(zoneID, date, slot) == nil
	}
	return out, nil
}
