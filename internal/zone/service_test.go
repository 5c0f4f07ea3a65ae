package zone

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
)

type memRepo struct {
	zones []*Zone
	rules []ConflictRule
	seq   int
}

func (m *memRepo) find(id string) *Zone {
	for _, z := range m.zones {
		if z.ID == id {
			return z
		}
	}
	return nil
}

func (m *memRepo) hydrate(z *Zone) *Zone {
	cp := *z
	cp.SubZones = nil
	cp.ConflictRules = nil
	if cp.IsMainZone {
		for _, other := range m.zones {
			if other.ParentZoneID != nil && *other.ParentZoneID == z.ID {
				cp.SubZones = append(cp.SubZones, other.ID)
			}
		}
	}
	for _, r := range m.rules {
		if r.ZoneID == z.ID {
			cp.ConflictRules = append(cp.ConflictRules, r)
		}
	}
	return &cp
}

func (m *memRepo) Create(_ context.Context, z *Zone) error {
	m.seq++
	z.ID = fmt.Sprintf("zone-%d", m.seq)
	cp := *z
	m.zones = append(m.zones, &cp)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Zone, error) {
	z := m.find(id)
	if z == nil {
		return nil, ErrNotFound
	}
	return m.hydrate(z), nil
}

func (m *memRepo) ListByFacility(_ context.Context, facilityID string) ([]*Zone, error) {
	var out []*Zone
	for _, z := range m.zones {
		if z.FacilityID == facilityID {
			out = append(out, m.hydrate(z))
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, z *Zone) error {
	for i, existing := range m.zones {
		if existing.ID == z.ID {
			cp := *z
			m.zones[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	for i, z := range m.zones {
		if z.ID == id {
			m.zones = append(m.zones[:i], m.zones[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memRepo) CreateRule(_ context.Context, rule *ConflictRule) error {
	for _, r := range m.rules {
		if r.ZoneID == rule.ZoneID && r.ConflictingZoneID == rule.ConflictingZoneID {
			return ErrDuplicateRule
		}
	}
	m.seq++
	rule.ID = fmt.Sprintf("rule-%d", m.seq)
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *memRepo) GetRule(_ context.Context, id string) (*ConflictRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, ErrRuleNotFound
}

func (m *memRepo) DeleteRule(_ context.Context, id string) error {
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return ErrRuleNotFound
}

type staticBookings struct {
	bookings []ExistingBooking
	err      error
}

func (s staticBookings) ListExisting(_ context.Context, _ string, _ []time.Time) ([]ExistingBooking, error) {
	return s.bookings, s.err
}

type stubFacilities struct {
	facility.Service
	known map[string]bool
}

func (s stubFacilities) GetByID(_ context.Context, id string) (*facility.Facility, error) {
	if !s.known[id] {
		return nil, facility.ErrNotFound
	}
	return &facility.Facility{ID: id, Name: "Idrettshall", PricePerHour: 500}, nil
}

type recordingNotifier struct {
	facilities []string
}

func (n *recordingNotifier) ZonesChanged(_ context.Context, facilityID string) {
	n.facilities = append(n.facilities, facilityID)
}

type fixture struct {
	repo     *memRepo
	notifier *recordingNotifier
	svc      Service
	main     *Zone
	subA     *Zone
	subB     *Zone
}

func newFixture(t *testing.T, bookings BookingSource) *fixture {
	t.Helper()
	repo := &memRepo{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, bookings, stubFacilities{known: map[string]bool{"fac": true, "other": true}}, Options{EnforcePeerRules: true}, notifier)
	ctx := context.Background()

	main, err := svc.Create(ctx, CreateRequest{FacilityID: "fac", Name: "Gymsal-Hele", Type: TypeArea, Capacity: 60, IsMainZone: true, IsActive: true})
	require.NoError(t, err)
	subA, err := svc.Create(ctx, CreateRequest{FacilityID: "fac", Name: "Gymsal-A", Type: TypeSection, Capacity: 30, ParentZoneID: &main.ID, IsActive: true})
	require.NoError(t, err)
	subB, err := svc.Create(ctx, CreateRequest{FacilityID: "fac", Name: "Gymsal-B", Type: TypeSection, Capacity: 30, ParentZoneID: &main.ID, IsActive: true})
	require.NoError(t, err)

	notifier.facilities = nil
	return &fixture{repo: repo, notifier: notifier, svc: svc, main: main, subA: subA, subB: subB}
}

func TestServiceCreateEnforcesHierarchy(t *testing.T) {
	f := newFixture(t, staticBookings{})
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "unknown facility",
			req:     CreateRequest{FacilityID: "nope", Name: "X", Type: TypeRoom, Capacity: 5},
			wantErr: ErrFacilityNotFound,
		},
		{
			name:    "nested below a sub-zone",
			req:     CreateRequest{FacilityID: "fac", Name: "X", Type: TypeSection, Capacity: 5, ParentZoneID: &f.subA.ID},
			wantErr: ErrInvalidHierarchy,
		},
		{
			name:    "main zone with a parent",
			req:     CreateRequest{FacilityID: "fac", Name: "X", Type: TypeArea, Capacity: 5, IsMainZone: true, ParentZoneID: &f.main.ID},
			wantErr: ErrInvalidHierarchy,
		},
		{
			name:    "parent in another facility",
			req:     CreateRequest{FacilityID: "other", Name: "X", Type: TypeSection, Capacity: 5, ParentZoneID: &f.main.ID},
			wantErr: ErrCrossFacilityParent,
		},
		{
			name:    "unknown type",
			req:     CreateRequest{FacilityID: "fac", Name: "X", Type: "pool", Capacity: 5},
			wantErr: ErrInvalidType,
		},
		{
			name:    "zero capacity",
			req:     CreateRequest{FacilityID: "fac", Name: "X", Type: TypeRoom},
			wantErr: ErrInvalidCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServiceCheckConflictScenarios(t *testing.T) {
	day := time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)
	bookings := &staticBookings{}
	f := newFixture(t, bookings)
	bookings.bookings = []ExistingBooking{{ID: "b1", ZoneID: f.subA.ID, Date: day, TimeSlot: testSlot, BookedBy: "Klubb"}}
	ctx := context.Background()

	// Scenario A
	got, err := f.svc.CheckConflict(ctx, f.main.ID, day, testSlot)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ConflictSubZone, got.ConflictType)
	assert.Equal(t, "Gymsal-A", got.ConflictingZoneName)

	// Scenario B
	got, err = f.svc.CheckConflict(ctx, f.subB.ID, day, testSlot)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.svc.CheckConflict(ctx, "missing", day, testSlot)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CheckConflict(ctx, f.subB.ID, day, " ")
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestServiceConflictRules(t *testing.T) {
	day := time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)
	bookings := &staticBookings{}
	f := newFixture(t, bookings)
	ctx := context.Background()

	_, err := f.svc.AddConflictRule(ctx, CreateRuleRequest{ZoneID: f.subA.ID, ConflictingZoneID: f.subA.ID})
	assert.ErrorIs(t, err, ErrSelfConflict)

	_, err = f.svc.AddConflictRule(ctx, CreateRuleRequest{ZoneID: f.subA.ID, ConflictingZoneID: f.subB.ID, Type: "overlaps"})
	assert.ErrorIs(t, err, ErrInvalidRuleType)

	rule, err := f.svc.AddConflictRule(ctx, CreateRuleRequest{ZoneID: f.subA.ID, ConflictingZoneID: f.subB.ID, Description: "shared net"})
	require.NoError(t, err)
	assert.Equal(t, RuleMutuallyExclusive, rule.Type)

	_, err = f.svc.AddConflictRule(ctx, CreateRuleRequest{ZoneID: f.subA.ID, ConflictingZoneID: f.subB.ID})
	assert.ErrorIs(t, err, ErrDuplicateRule)

	bookings.bookings = []ExistingBooking{{ID: "b1", ZoneID: f.subA.ID, Date: day, TimeSlot: testSlot}}
	got, err := f.svc.CheckConflict(ctx, f.subB.ID, day, testSlot)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ConflictPeerZone, got.ConflictType)

	assert.ErrorIs(t, f.svc.RemoveConflictRule(ctx, f.main.ID, rule.ID), ErrRuleNotFound)
	require.NoError(t, f.svc.RemoveConflictRule(ctx, f.subB.ID, rule.ID))
	assert.ErrorIs(t, f.svc.RemoveConflictRule(ctx, f.subB.ID, rule.ID), ErrRuleNotFound)
	got, err = f.svc.CheckConflict(ctx, f.subB.ID, day, testSlot)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestServiceDeleteMainZoneWithSubZones(t *testing.T) {
	f := newFixture(t, staticBookings{})
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, f.main.ID), ErrHasSubZones)
	require.NoError(t, f.svc.Delete(ctx, f.subA.ID))
	require.NoError(t, f.svc.Delete(ctx, f.subB.ID))
	require.NoError(t, f.svc.Delete(ctx, f.main.ID))
}

func TestServiceSnapshotPropagatesBookingErrors(t *testing.T) {
	boom := errors.New("db down")
	f := newFixture(t, staticBookings{err: boom})

	_, err := f.svc.AvailabilityStatus(context.Background(), "fac", time.Now(), testSlot)
	assert.ErrorIs(t, err, boom)
}

func TestServiceMultiSlotRequiresDates(t *testing.T) {
	f := newFixture(t, staticBookings{})

	_, err := f.svc.CheckMultiSlot(context.Background(), f.subA.ID, nil, testSlot)
	assert.ErrorIs(t, err, ErrNoDates)
}

func TestServiceUpdateClearsPrice(t *testing.T) {
	f := newFixture(t, staticBookings{})
	ctx := context.Background()

	price := 450.0
	z, err := f.svc.Update(ctx, f.subA.ID, UpdateRequest{PricePerHour: &price})
	require.NoError(t, err)
	require.NotNil(t, z.PricePerHour)
	assert.Equal(t, 450.0, *z.PricePerHour)

	z, err = f.svc.Update(ctx, f.subA.ID, UpdateRequest{ClearPricePerHour: true})
	require.NoError(t, err)
	assert.Nil(t, z.PricePerHour)

	negative := -1.0
	_, err = f.svc.Update(ctx, f.subA.ID, UpdateRequest{PricePerHour: &negative})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestServiceWritesNotifyFacility(t *testing.T) {
	f := newFixture(t, staticBookings{})
	ctx := context.Background()

	closed := false
	_, err := f.svc.Update(ctx, f.subA.ID, UpdateRequest{IsActive: &closed})
	require.NoError(t, err)

	rule, err := f.svc.AddConflictRule(ctx, CreateRuleRequest{ZoneID: f.subA.ID, ConflictingZoneID: f.subB.ID})
	require.NoError(t, err)
	require.NoError(t, f.svc.RemoveConflictRule(ctx, f.subA.ID, rule.ID))
	require.NoError(t, f.svc.Delete(ctx, f.subB.ID))

	assert.Equal(t, []string{"fac", "fac", "fac", "fac"}, f.notifier.facilities)

	// Failed writes stay silent.
	f.notifier.facilities = nil
	assert.ErrorIs(t, f.svc.Delete(ctx, f.main.ID), ErrHasSubZones)
	negative := -1.0
	_, err = f.svc.Update(ctx, f.subA.ID, UpdateRequest{PricePerHour: &negative})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Empty(t, f.notifier.facilities)
}
