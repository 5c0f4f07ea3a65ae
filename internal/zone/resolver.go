package zone

import (
	"math"
	"sort"
	"time"
)

// Options tunes the resolver beyond the base hierarchy checks.
type Options struct {
	MatchMode        MatchMode
	EnforcePeerRules bool
}

// Resolver answers booking-legality questions over one snapshot of zones and
// bookings. It is built per request and never mutates the snapshot.
type Resolver struct {
	zones    []*Zone
	byID     map[string]*Zone
	bookings []ExistingBooking
	opts     Options
}

// NewResolver validates the zone hierarchy and returns a resolver over the snapshot.
func NewResolver(zones []*Zone, bookings []ExistingBooking, opts Options) (*Resolver, error) {
	if err := ValidateHierarchy(zones); err != nil {
		return nil, err
	}
	if opts.MatchMode == "" {
		opts.MatchMode = MatchLabel
	}

	byID := make(map[string]*Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
	}
	return &Resolver{
		zones:    zones,
		byID:     byID,
		bookings: bookings,
		opts:     opts,
	}, nil
}

// Zones returns the snapshot's zones in their original order.
func (r *Resolver) Zones() []*Zone {
	return r.zones
}

// Zone returns the zone with the given id.
func (r *Resolver) Zone(id string) (*Zone, bool) {
	z, ok := r.byID[id]
	return z, ok
}

// CheckZoneConflict returns the first conflict for booking zoneID at (date, slot),
// or nil when the slot is free. Checks run in order: direct booking on the zone,
// bookings on its sub-zones, a booking on its main zone, then declared peer rules.
func (r *Resolver) CheckZoneConflict(zoneID string, date time.Time, slot string) *BookingConflict {
	// 1. Direct
	if b := r.findBooking(zoneID, date, slot); b != nil {
		return r.conflictFrom(ConflictZone, b)
	}

	z, ok := r.byID[zoneID]
	if !ok {
		return nil
	}

	// 2. Downward: booking the whole facility locks every sub-zone
	if z.IsMainZone {
		for _, subID := range z.SubZones {
			if b := r.findBooking(subID, date, slot); b != nil {
				return r.conflictFrom(ConflictSubZone, b)
			}
		}
	}

	// 3. Upward
	if z.ParentZoneID != nil {
		if b := r.findBooking(*z.ParentZoneID, date, slot); b != nil {
			return r.conflictFrom(ConflictWholeFacility, b)
		}
	}

	// 4. Peer rules
	if r.opts.EnforcePeerRules {
		for _, peerID := range r.peersOf(z) {
			if b := r.findBooking(peerID, date, slot); b != nil {
				return r.conflictFrom(ConflictPeerZone, b)
			}
		}
	}

	return nil
}

// ZoneAvailabilityStatus reports, for every zone in the snapshot, whether it
// can be booked at (date, slot). Inactive zones are reported as maintenance.
func (r *Resolver) ZoneAvailabilityStatus(date time.Time, slot string) []AvailabilityStatus {
	out := make([]AvailabilityStatus, 0, len(r.zones))
	for _, z := range r.zones {
		st := AvailabilityStatus{ZoneID: z.ID}
		conflict := r.CheckZoneConflict(z.ID, date, slot)
		switch {
		case conflict != nil:
			st.ConflictReason = reasonFor(conflict.ConflictType)
			st.Conflict = conflict
		case !z.IsActive:
			st.ConflictReason = ReasonMaintenance
		default:
			st.IsAvailable = true
		}
		out = append(out, st)
	}
	return out
}

// CheckMultiSlotAvailability runs CheckZoneConflict for slot on every date.
// Available is true only when no date conflicts.
func (r *Resolver) CheckMultiSlotAvailability(zoneID string, dates []time.Time, slot string) MultiSlotResult {
	res := MultiSlotResult{Conflicts: []BookingConflict{}}
	for _, d := range dates {
		if c := r.CheckZoneConflict(zoneID, d, slot); c != nil {
			res.Conflicts = append(res.Conflicts, *c)
		}
	}
	res.Available = len(res.Conflicts) == 0
	return res
}

// AlternativeZones returns available, active zones other than preferredZoneID
// with at least requiredCapacity places, in snapshot order.
func (r *Resolver) AlternativeZones(preferredZoneID string, date time.Time, slot string, requiredCapacity int) []*Zone {
	var out []*Zone
	for _, z := range r.availableZones(date, slot, requiredCapacity) {
		if z.ID == preferredZoneID {
			continue
		}
		out = append(out, z)
	}
	return out
}

// BookingRecommendations returns available zones with enough capacity, ranked by
// the number of preferred equipment items they carry (most first), then by how
// closely their capacity fits requiredCapacity.
func (r *Resolver) BookingRecommendations(requiredCapacity int, preferredEquipment []string, date time.Time, slot string) []*Zone {
	candidates := r.availableZones(date, slot, requiredCapacity)
	RankByFit(candidates, requiredCapacity, preferredEquipment)
	return candidates
}

// RankByFit sorts zones in place by equipment match count descending, then by
// absolute capacity difference ascending. The sort is stable.
func RankByFit(zones []*Zone, requiredCapacity int, preferredEquipment []string) {
	sort.SliceStable(zones, func(i, j int) bool {
		mi := EquipmentMatches(zones[i], preferredEquipment)
		mj := EquipmentMatches(zones[j], preferredEquipment)
		if mi != mj {
			return mi > mj
		}
		return capacityGap(zones[i], requiredCapacity) < capacityGap(zones[j], requiredCapacity)
	})
}

// EquipmentMatches counts how many of wanted the zone has.
func EquipmentMatches(z *Zone, wanted []string) int {
	if len(wanted) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(z.Equipment))
	for _, e := range z.Equipment {
		have[e] = struct{}{}
	}
	n := 0
	for _, w := range wanted {
		if _, ok := have[w]; ok {
			n++
		}
	}
	return n
}

func capacityGap(z *Zone, required int) float64 {
	return math.Abs(float64(z.Capacity - required))
}

func (r *Resolver) availableZones(date time.Time, slot string, requiredCapacity int) []*Zone {
	var out []*Zone
	for _, st := range r.ZoneAvailabilityStatus(date, slot) {
		if !st.IsAvailable {
			continue
		}
		z := r.byID[st.ZoneID]
		if z.IsActive && z.Capacity >= requiredCapacity {
			out = append(out, z)
		}
	}
	return out
}

func (r *Resolver) findBooking(zoneID string, date time.Time, slot string) *ExistingBooking {
	for i := range r.bookings {
		b := &r.bookings[i]
		if b.ZoneID == zoneID && SameDay(b.Date, date) && slotsCollide(r.opts.MatchMode, b.TimeSlot, slot) {
			return b
		}
	}
	return nil
}

// peersOf collects mutually exclusive peers declared on z or pointing at z.
func (r *Resolver) peersOf(z *Zone) []string {
	seen := make(map[string]struct{})
	var peers []string
	add := func(id string) {
		if id == z.ID {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		peers = append(peers, id)
	}

	for _, rule := range z.ConflictRules {
		if rule.Type == RuleMutuallyExclusive && rule.ZoneID == z.ID {
			add(rule.ConflictingZoneID)
		}
	}
	for _, other := range r.zones {
		for _, rule := range other.ConflictRules {
			if rule.Type == RuleMutuallyExclusive && rule.ConflictingZoneID == z.ID {
				add(rule.ZoneID)
			}
		}
	}
	return peers
}

func (r *Resolver) conflictFrom(kind ConflictType, b *ExistingBooking) *BookingConflict {
	name := b.ZoneID
	if z, ok := r.byID[b.ZoneID]; ok {
		name = z.Name
	}
	return &BookingConflict{
		ConflictType:         kind,
		ConflictingBookingID: b.ID,
		ConflictingZoneID:    b.ZoneID,
		ConflictingZoneName:  name,
		TimeSlot:             b.TimeSlot,
		Date:                 b.Date,
		BookedBy:             b.BookedBy,
	}
}

func reasonFor(t ConflictType) ConflictReason {
	switch t {
	case ConflictWholeFacility:
		return ReasonWholeFacilityBooked
	case ConflictSubZone:
		return ReasonSubZoneConflict
	case ConflictPeerZone:
		return ReasonPeerZoneConflict
	default:
		return ReasonBooked
	}
}
