// Package availability projects conflict checks onto a days × time-slots grid.
package availability

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/holiday"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

// DefaultDays is the number of consecutive days a table covers.
const DefaultDays = 5

// Status is the badge shown in one cell.
type Status string

const (
	StatusFree          Status = "Ledig"
	StatusBooked        Status = "Opptatt"
	StatusWholeFacility Status = "Hele lokalet"
	StatusZoneBooked    Status = "Sone opptatt"
	StatusWeekend       Status = "Helg"
	StatusHoliday       Status = "Helligdag"
	StatusMaintenance   Status = "Vedlikehold"
	StatusPast          Status = "Fortid"
)

// DayChecker decides whether a whole day is closed.
type DayChecker interface {
	IsDateUnavailable(date time.Time) holiday.Unavailability
}

type Input struct {
	Resolver  *zone.Resolver
	Days      DayChecker
	StartDate time.Time
	NumDays   int // DefaultDays when zero
	TimeSlots []string
}

type Cell struct {
	Date     time.Time
	TimeSlot string
	Status   Status
	Details  string
	Conflict *zone.BookingConflict
}

// Row holds one zone's cells ordered by day, then by time slot.
type Row struct {
	ZoneID        string
	ZoneName      string
	Capacity      int
	WholeFacility bool
	Cells         []Cell
}

// Table is the rendered grid. Main zones come before sub-zones.
type Table struct {
	FacilityID   string
	FacilityName string
	Dates        []time.Time
	TimeSlots    []string
	MainZones    []Row
	SubZones     []Row
}

// Dates returns n consecutive calendar days starting at start.
func Dates(start time.Time, n int) []time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = first.AddDate(0, 0, i)
	}
	return out
}

// Build fills the grid. Each cell gets exactly one status: a closed day wins
// over an inactive zone, which wins over a booking conflict.
func Build(in Input) *Table {
	n := in.NumDays
	if n <= 0 {
		n = DefaultDays
	}
	t := &Table{
		Dates:     Dates(in.StartDate, n),
		TimeSlots: in.TimeSlots,
		MainZones: []Row{},
		SubZones:  []Row{},
	}

	closed := make([]holiday.Unavailability, len(t.Dates))
	for i, d := range t.Dates {
		if in.Days != nil {
			closed[i] = in.Days.IsDateUnavailable(d)
		}
	}

	for _, z := range in.Resolver.Zones() {
		row := Row{
			ZoneID:        z.ID,
			ZoneName:      z.Name,
			Capacity:      z.Capacity,
			WholeFacility: z.IsMainZone,
			Cells:         make([]Cell, 0, len(t.Dates)*len(t.TimeSlots)),
		}
		for i, d := range t.Dates {
			for _, slot := range t.TimeSlots {
				row.Cells = append(row.Cells, cellFor(in.Resolver, z, d, slot, closed[i]))
			}
		}
		if z.IsMainZone {
			t.MainZones = append(t.MainZones, row)
		} else {
			t.SubZones = append(t.SubZones, row)
		}
	}
	return t
}

func cellFor(r *zone.Resolver, z *zone.Zone, date time.Time, slot string, closed holiday.Unavailability) Cell {
	c := Cell{Date: date, TimeSlot: slot}

	if closed.IsUnavailable {
		c.Status = dayStatus(closed.Reason)
		c.Details = closed.Details
		return c
	}
	if !z.IsActive {
		c.Status = StatusMaintenance
		c.Details = "Sonen er stengt"
		return c
	}
	if conflict := r.CheckZoneConflict(z.ID, date, slot); conflict != nil {
		c.Status = conflictStatus(conflict.ConflictType)
		c.Details = conflict.ConflictingZoneName
		c.Conflict = conflict
		return c
	}
	c.Status = StatusFree
	return c
}

func dayStatus(reason holiday.Reason) Status {
	switch reason {
	case holiday.ReasonPast:
		return StatusPast
	case holiday.ReasonWeekend:
		return StatusWeekend
	case holiday.ReasonHoliday:
		return StatusHoliday
	default:
		return StatusMaintenance
	}
}

func conflictStatus(t zone.ConflictType) Status {
	switch t {
	case zone.ConflictWholeFacility:
		return StatusWholeFacility
	case zone.ConflictSubZone, zone.ConflictPeerZone:
		return StatusZoneBooked
	default:
		return StatusBooked
	}
}

// Cell returns the cell for the given day and slot index.
func (r Row) Cell(day, slot, slotsPerDay int) Cell {
	return r.Cells[day*slotsPerDay+slot]
}
