package suggestion

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

const (
	maxNamedAlternatives = 3
	eveningFromHour      = 17
	eveningToHour        = 22
)

// Service is the suggestion surface used by handlers and the booking module.
type Service interface {
	CheckRealTimeConflicts(ctx context.Context, zoneID string, start, end time.Time) (*RealTimeResult, error)
	AvailabilityHeatmap(ctx context.Context, zoneID string, startDate, endDate time.Time, slots []string) (*Heatmap, error)
	SuggestZones(ctx context.Context, zoneID string, date time.Time, slot string, requiredCapacity int, equipment []string) ([]AlternativeZoneSuggestion, error)
	InvalidateDay(ctx context.Context, date time.Time)
}

// Engine layers live booking data and recommendations on top of the resolver.
type Engine struct {
	lookup BookingLookup
	cache  DayCache
	zones  zone.Service
	loc    *time.Location
}

// NewEngine wires the engine. cache may be nil.
func NewEngine(lookup BookingLookup, cache DayCache, zones zone.Service, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{lookup: lookup, cache: cache, zones: zones, loc: loc}
}

// CheckRealTimeConflicts asks the booking service about [start, end) and adds
// human readable recommendations. A failing lookup yields a degraded result
// rather than an error.
func (e *Engine) CheckRealTimeConflicts(ctx context.Context, zoneID string, start, end time.Time) (*RealTimeResult, error) {
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	res := &RealTimeResult{
		Conflicts:       []zone.BookingConflict{},
		Alternatives:    []AlternativeZone{},
		Recommendations: []string{},
	}

	report, err := e.lookup.ConflictingBookings(ctx, zoneID, start, end)
	if err != nil {
		log.Printf("real-time conflict check for zone %s failed: %v", zoneID, err)
		res.Degraded = true
		res.Recommendations = append(res.Recommendations, "Kunne ikke sjekke tilgjengelighet akkurat nå. Prøv igjen om litt.")
	} else {
		res.HasConflict = report.HasConflict
		if report.Conflicts != nil {
			res.Conflicts = report.Conflicts
		}
		if report.Alternatives != nil {
			res.Alternatives = report.Alternatives
		}
	}

	res.Recommendations = append(res.Recommendations, e.recommendations(res, start, end)...)
	return res, nil
}

func (e *Engine) recommendations(res *RealTimeResult, start, end time.Time) []string {
	var out []string
	start, end = start.In(e.loc), end.In(e.loc)

	if res.HasConflict {
		d := end.Sub(start)
		out = append(out,
			fmt.Sprintf("Prøv tidligere: %s-%s", start.Add(-d).Format("15:04"), start.Format("15:04")),
			fmt.Sprintf("Prøv senere: %s-%s", end.Format("15:04"), end.Add(d).Format("15:04")),
		)
	}

	if n := len(res.Alternatives); n > 0 {
		shown := res.Alternatives
		if n > maxNamedAlternatives {
			shown = shown[:maxNamedAlternatives]
		}
		names := make([]string, len(shown))
		for i, a := range shown {
			names[i] = a.Name
		}
		msg := "Ledige alternativer: " + strings.Join(names, ", ")
		if rest := n - len(shown); rest > 0 {
			msg += fmt.Sprintf(" og %d til", rest)
		}
		out = append(out, msg)
	}

	if wd := start.Weekday(); wd == time.Saturday || wd == time.Sunday {
		out = append(out, "Hverdager har ofte bedre tilgjengelighet og lavere priser.")
	}

	if h := start.Hour(); h >= eveningFromHour && h <= eveningToHour {
		out = append(out, "Dagtid har ofte bedre tilgjengelighet enn kveldstid.")
	}
	return out
}

// AvailabilityHeatmap reports slot availability for every day in
// [startDate, endDate]. A day whose lookup fails is reported with every slot
// unavailable.
func (e *Engine) AvailabilityHeatmap(ctx context.Context, zoneID string, startDate, endDate time.Time, slots []string) (*Heatmap, error) {
	if len(slots) == 0 {
		return nil, ErrNoTimeSlots
	}
	first, last := calendarDay(startDate), calendarDay(endDate)
	if last.Before(first) {
		return nil, ErrInvalidDateRange
	}
	if days := int(last.Sub(first).Hours()/24) + 1; days > MaxHeatmapDays {
		return nil, ErrRangeTooLarge
	}

	hm := &Heatmap{ZoneID: zoneID, TimeSlots: slots}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		hm.Days = append(hm.Days, e.heatmapDay(ctx, zoneID, d, slots))
	}
	return hm, nil
}

func (e *Engine) heatmapDay(ctx context.Context, zoneID string, date time.Time, slots []string) HeatmapDay {
	day := HeatmapDay{Date: date, Slots: make(map[string]bool, len(slots))}

	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, zoneID, date, slots); ok {
			for _, s := range slots {
				day.Slots[s] = cached[s]
			}
			return day
		}
	}

	got, err := e.lookup.CheckAvailability(ctx, zoneID, date, slots)
	if err != nil {
		log.Printf("availability lookup for zone %s on %s failed: %v", zoneID, date.Format(wireDateLayout), err)
		for _, s := range slots {
			day.Slots[s] = false
		}
		day.Failed = true
		return day
	}

	for _, s := range slots {
		day.Slots[s] = got[s]
	}
	if e.cache != nil {
		e.cache.Set(ctx, zoneID, date, slots, day.Slots)
	}
	return day
}

// InvalidateDay drops cached heatmap data for date.
func (e *Engine) InvalidateDay(ctx context.Context, date time.Time) {
	if e.cache != nil {
		e.cache.InvalidateDate(ctx, calendarDay(date))
	}
}

// ZonesChanged drops every cached heatmap day after a zone or conflict rule write.
func (e *Engine) ZonesChanged(ctx context.Context, facilityID string) {
	if e.cache == nil {
		return
	}
	log.Printf("zones of facility %s changed, flushing heatmap cache", facilityID)
	e.cache.InvalidateAll(ctx)
}

// SuggestZones ranks the zones that are free at (date, slot) instead of zoneID.
// Order follows zone.RankByFit; Score is round(60*equipment share + 40*capacity fit).
func (e *Engine) SuggestZones(ctx context.Context, zoneID string, date time.Time, slot string, requiredCapacity int, equipment []string) ([]AlternativeZoneSuggestion, error) {
	zones, err := e.zones.Alternatives(ctx, zoneID, date, slot, requiredCapacity)
	if err != nil {
		return nil, err
	}
	zone.RankByFit(zones, requiredCapacity, equipment)

	out := make([]AlternativeZoneSuggestion, len(zones))
	for i, z := range zones {
		out[i] = AlternativeZoneSuggestion{
			Zone:   z,
			Score:  Score(z, requiredCapacity, equipment),
			Reason: reason(z, requiredCapacity, equipment),
		}
	}
	return out, nil
}

// Score is the 0-100 match percentage of z for the request.
func Score(z *zone.Zone, requiredCapacity int, equipment []string) int {
	equipmentShare := 1.0
	if len(equipment) > 0 {
		equipmentShare = float64(zone.EquipmentMatches(z, equipment)) / float64(len(equipment))
	}
	capacityFit := 1.0
	if requiredCapacity > 0 && z.Capacity > 0 {
		capacityFit = math.Min(1, float64(requiredCapacity)/float64(z.Capacity))
	}
	return int(math.Round(60*equipmentShare + 40*capacityFit))
}

func reason(z *zone.Zone, requiredCapacity int, equipment []string) string {
	parts := []string{}
	if len(equipment) > 0 {
		parts = append(parts, fmt.Sprintf("har %d av %d ønsket utstyr", zone.EquipmentMatches(z, equipment), len(equipment)))
	}
	if requiredCapacity > 0 {
		parts = append(parts, fmt.Sprintf("plass til %d (trenger %d)", z.Capacity, requiredCapacity))
	} else {
		parts = append(parts, fmt.Sprintf("plass til %d", z.Capacity))
	}
	if z.IsMainZone {
		parts = append(parts, "hele lokalet")
	}
	return strings.Join(parts, ", ")
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
