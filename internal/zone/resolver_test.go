package zone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)

const testSlot = "14:00-16:00"

func strPtr(s string) *string { return &s }

// gymsal builds the main zone "Gymsal-Hele" with sub-zones "Gymsal-A" and "Gymsal-B".
func gymsal() []*Zone {
	return []*Zone{
		{ID: "Gymsal-Hele", Name: "Gymsal-Hele", Type: TypeArea, Capacity: 60, IsMainZone: true,
			SubZones: []string{"Gymsal-A", "Gymsal-B"}, IsActive: true},
		{ID: "Gymsal-A", Name: "Gymsal-A", Type: TypeSection, Capacity: 30, ParentZoneID: strPtr("Gymsal-Hele"),
			IsActive: true, Equipment: []string{"basket"}},
		{ID: "Gymsal-B", Name: "Gymsal-B", Type: TypeSection, Capacity: 30, ParentZoneID: strPtr("Gymsal-Hele"),
			IsActive: true, Equipment: []string{"basket", "volley"}},
	}
}

func booking(id, zoneID string, day time.Time, slot string) ExistingBooking {
	return ExistingBooking{ID: id, ZoneID: zoneID, Date: day, TimeSlot: slot, BookedBy: "Skole"}
}

func newTestResolver(t *testing.T, zones []*Zone, bookings []ExistingBooking, opts Options) *Resolver {
	t.Helper()
	r, err := NewResolver(zones, bookings, opts)
	require.NoError(t, err)
	return r
}

func TestCheckZoneConflict(t *testing.T) {
	tests := []struct {
		name     string
		bookings []ExistingBooking
		zoneID   string
		wantType ConflictType
		wantZone string
	}{
		{
			name:     "direct booking on the same zone",
			bookings: []ExistingBooking{booking("b1", "Gymsal-A", testDay, testSlot)},
			zoneID:   "Gymsal-A",
			wantType: ConflictZone,
			wantZone: "Gymsal-A",
		},
		{
			name:     "main zone is blocked by a sub-zone booking",
			bookings: []ExistingBooking{booking("b1", "Gymsal-A", testDay, testSlot)},
			zoneID:   "Gymsal-Hele",
			wantType: ConflictSubZone,
			wantZone: "Gymsal-A",
		},
		{
			name:     "sub-zone is blocked by a whole facility booking",
			bookings: []ExistingBooking{booking("b1", "Gymsal-Hele", testDay, testSlot)},
			zoneID:   "Gymsal-B",
			wantType: ConflictWholeFacility,
			wantZone: "Gymsal-Hele",
		},
		{
			name:     "sibling sub-zones do not block each other",
			bookings: []ExistingBooking{booking("b1", "Gymsal-A", testDay, testSlot)},
			zoneID:   "Gymsal-B",
		},
		{
			name:     "other day is free",
			bookings: []ExistingBooking{booking("b1", "Gymsal-A", testDay.AddDate(0, 0, 1), testSlot)},
			zoneID:   "Gymsal-A",
		},
		{
			name:     "overlapping but differently labelled slot is free in label mode",
			bookings: []ExistingBooking{booking("b1", "Gymsal-A", testDay, "15:00-17:00")},
			zoneID:   "Gymsal-A",
		},
		{
			name:   "no bookings at all",
			zoneID: "Gymsal-Hele",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, gymsal(), tt.bookings, Options{})
			got := r.CheckZoneConflict(tt.zoneID, testDay, testSlot)
			if tt.wantType == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.ConflictType)
			assert.Equal(t, tt.wantZone, got.ConflictingZoneID)
			assert.Equal(t, tt.wantZone, got.ConflictingZoneName)
			assert.Equal(t, "b1", got.ConflictingBookingID)
		})
	}
}

func TestCheckZoneConflictDirectWinsOverHierarchy(t *testing.T) {
	bookings := []ExistingBooking{
		booking("sub", "Gymsal-A", testDay, testSlot),
		booking("main", "Gymsal-Hele", testDay, testSlot),
	}
	r := newTestResolver(t, gymsal(), bookings, Options{})

	got := r.CheckZoneConflict("Gymsal-Hele", testDay, testSlot)
	require.NotNil(t, got)
	assert.Equal(t, ConflictZone, got.ConflictType)
	assert.Equal(t, "main", got.ConflictingBookingID)
}

func TestCheckZoneConflictOverlapMode(t *testing.T) {
	bookings := []ExistingBooking{booking("b1", "Gymsal-Hele", testDay, "15:00-17:00")}
	r := newTestResolver(t, gymsal(), bookings, Options{MatchMode: MatchOverlap})

	got := r.CheckZoneConflict("Gymsal-A", testDay, testSlot)
	require.NotNil(t, got)
	assert.Equal(t, ConflictWholeFacility, got.ConflictType)

	assert.Nil(t, r.CheckZoneConflict("Gymsal-A", testDay, "16:00-18:00"), "adjacent slots do not overlap")
}

func TestCheckZoneConflictPeerRules(t *testing.T) {
	zones := gymsal()
	zones[1].ConflictRules = []ConflictRule{{
		ID: "r1", ZoneID: "Gymsal-A", ConflictingZoneID: "Gymsal-B", Type: RuleMutuallyExclusive,
	}}
	bookingsOnA := []ExistingBooking{booking("b1", "Gymsal-A", testDay, testSlot)}
	bookingsOnB := []ExistingBooking{booking("b2", "Gymsal-B", testDay, testSlot)}

	t.Run("disabled peer rules keep siblings independent", func(t *testing.T) {
		r := newTestResolver(t, zones, bookingsOnA, Options{})
		assert.Nil(t, r.CheckZoneConflict("Gymsal-B", testDay, testSlot))
	})

	t.Run("rule declared on the requested zone", func(t *testing.T) {
		r := newTestResolver(t, zones, bookingsOnB, Options{EnforcePeerRules: true})
		got := r.CheckZoneConflict("Gymsal-A", testDay, testSlot)
		require.NotNil(t, got)
		assert.Equal(t, ConflictPeerZone, got.ConflictType)
		assert.Equal(t, "Gymsal-B", got.ConflictingZoneID)
	})

	t.Run("rule is symmetric", func(t *testing.T) {
		r := newTestResolver(t, zones, bookingsOnA, Options{EnforcePeerRules: true})
		got := r.CheckZoneConflict("Gymsal-B", testDay, testSlot)
		require.NotNil(t, got)
		assert.Equal(t, ConflictPeerZone, got.ConflictType)
		assert.Equal(t, "Gymsal-A", got.ConflictingZoneID)
	})
}

func TestZoneAvailabilityStatus(t *testing.T) {
	zones := gymsal()
	zones = append(zones, &Zone{ID: "Moterom", Name: "Møterom", Type: TypeRoom, Capacity: 12, IsActive: false})
	r := newTestResolver(t, zones, []ExistingBooking{booking("b1", "Gymsal-A", testDay, testSlot)}, Options{})

	got := r.ZoneAvailabilityStatus(testDay, testSlot)
	require.Len(t, got, 4)

	byID := map[string]AvailabilityStatus{}
	for _, st := range got {
		byID[st.ZoneID] = st
	}
	assert.Equal(t, ReasonSubZoneConflict, byID["Gymsal-Hele"].ConflictReason)
	assert.Equal(t, ReasonBooked, byID["Gymsal-A"].ConflictReason)
	assert.True(t, byID["Gymsal-B"].IsAvailable)
	assert.Empty(t, byID["Gymsal-B"].ConflictReason)
	assert.False(t, byID["Moterom"].IsAvailable)
	assert.Equal(t, ReasonMaintenance, byID["Moterom"].ConflictReason)
}

func TestCheckMultiSlotAvailability(t *testing.T) {
	dates := []time.Time{testDay, testDay.AddDate(0, 0, 7), testDay.AddDate(0, 0, 14)}

	t.Run("all dates free", func(t *testing.T) {
		r := newTestResolver(t, gymsal(), nil, Options{})
		got := r.CheckMultiSlotAvailability("Gymsal-A", dates, testSlot)
		assert.True(t, got.Available)
		assert.Empty(t, got.Conflicts)
	})

	t.Run("one conflicting date per conflict", func(t *testing.T) {
		bookings := []ExistingBooking{
			booking("b1", "Gymsal-Hele", dates[0], testSlot),
			booking("b2", "Gymsal-A", dates[2], testSlot),
		}
		r := newTestResolver(t, gymsal(), bookings, Options{})
		got := r.CheckMultiSlotAvailability("Gymsal-A", dates, testSlot)
		assert.False(t, got.Available)
		require.Len(t, got.Conflicts, 2)
		assert.Equal(t, ConflictWholeFacility, got.Conflicts[0].ConflictType)
		assert.Equal(t, ConflictZone, got.Conflicts[1].ConflictType)
	})
}

func TestAlternativeZones(t *testing.T) {
	zones := gymsal()
	zones = append(zones, &Zone{ID: "Liten", Name: "Liten sal", Type: TypeRoom, Capacity: 10, IsActive: true})
	r := newTestResolver(t, zones, []ExistingBooking{booking("b1", "Gymsal-A", testDay, testSlot)}, Options{})

	got := r.AlternativeZones("Gymsal-A", testDay, testSlot, 20)

	// Gymsal-Hele is blocked through Gymsal-A, Liten is too small.
	require.Len(t, got, 1)
	assert.Equal(t, "Gymsal-B", got[0].ID)
}

func TestBookingRecommendations(t *testing.T) {
	zones := []*Zone{
		{ID: "big", Name: "Big", Capacity: 100, IsActive: true, Equipment: []string{"projector"}},
		{ID: "tight", Name: "Tight", Capacity: 22, IsActive: true, Equipment: []string{"projector"}},
		{ID: "equipped", Name: "Equipped", Capacity: 40, IsActive: true, Equipment: []string{"projector", "sound"}},
		{ID: "bare", Name: "Bare", Capacity: 20, IsActive: true},
		{ID: "small", Name: "Small", Capacity: 5, IsActive: true, Equipment: []string{"projector", "sound"}},
	}
	r := newTestResolver(t, zones, nil, Options{})

	got := r.BookingRecommendations(20, []string{"projector", "sound"}, testDay, testSlot)

	ids := make([]string, len(got))
	for i, z := range got {
		ids[i] = z.ID
	}
	assert.Equal(t, []string{"equipped", "tight", "big", "bare"}, ids)
}

func TestRankByFitIsStable(t *testing.T) {
	zones := []*Zone{
		{ID: "first", Capacity: 30},
		{ID: "second", Capacity: 10},
		{ID: "third", Capacity: 30},
	}
	RankByFit(zones, 20, nil)

	assert.Equal(t, "first", zones[0].ID)
	assert.Equal(t, "second", zones[1].ID)
	assert.Equal(t, "third", zones[2].ID)
}

func TestNewResolverRejectsBrokenHierarchy(t *testing.T) {
	tests := []struct {
		name  string
		zones []*Zone
	}{
		{
			name: "sub-zone with unknown parent",
			zones: []*Zone{
				{ID: "a", ParentZoneID: strPtr("missing")},
			},
		},
		{
			name: "three levels deep",
			zones: []*Zone{
				{ID: "main", IsMainZone: true, SubZones: []string{"mid"}},
				{ID: "mid", ParentZoneID: strPtr("main"), SubZones: []string{"leaf"}},
				{ID: "leaf", ParentZoneID: strPtr("mid")},
			},
		},
		{
			name: "main zone lists a sub-zone that points elsewhere",
			zones: []*Zone{
				{ID: "main", IsMainZone: true, SubZones: []string{"a"}},
				{ID: "other", IsMainZone: true, SubZones: []string{}},
				{ID: "a", ParentZoneID: strPtr("other")},
			},
		},
		{
			name: "main zone with a parent",
			zones: []*Zone{
				{ID: "main", IsMainZone: true},
				{ID: "nested", IsMainZone: true, ParentZoneID: strPtr("main")},
			},
		},
		{
			name: "duplicate ids",
			zones: []*Zone{
				{ID: "a"},
				{ID: "a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.zones, nil, Options{})
			assert.ErrorIs(t, err, ErrInvalidHierarchy)
		})
	}
}
