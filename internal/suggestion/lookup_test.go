package suggestion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

func TestHTTPLookupConflictingBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/zones/gymsal-a/conflicts", r.URL.Path)
		assert.Equal(t, "2025-05-26T14:00:00Z", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-05-26T16:00:00Z", r.URL.Query().Get("end"))

		_ = json.NewEncoder(w).Encode(WireConflictReport{
			HasConflict: true,
			Conflicts: []WireConflict{{
				ConflictType:        "whole-facility-conflict",
				ConflictingZoneID:   "gymsal-hele",
				ConflictingZoneName: "Gymsal-Hele",
				TimeSlot:            "14:00-16:00",
				Date:                "2025-05-26",
			}},
			Alternatives: []WireAlternative{{ID: "styrke", Name: "Styrkerom", Capacity: 12}},
		})
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL+"/v1", time.Second, 0)
	report, err := l.ConflictingBookings(context.Background(), "gymsal-a", at(14), at(16))
	require.NoError(t, err)

	assert.True(t, report.HasConflict)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, zone.ConflictWholeFacility, report.Conflicts[0].ConflictType)
	assert.Equal(t, time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC), report.Conflicts[0].Date)
	assert.Equal(t, []AlternativeZone{{ID: "styrke", Name: "Styrkerom", Capacity: 12}}, report.Alternatives)
}

func TestHTTPLookupCheckAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/zones/gymsal-a/availability", r.URL.Path)

		var body WireAvailabilityRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-05-26", body.Date)
		assert.Equal(t, []string{"08:00-10:00", "10:00-12:00"}, body.TimeSlots)

		_ = json.NewEncoder(w).Encode(WireAvailabilityResponse{Availability: map[string]bool{"08:00-10:00": true}})
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL, time.Second, 5)
	got, err := l.CheckAvailability(context.Background(), "gymsal-a", at(0), []string{"08:00-10:00", "10:00-12:00"})
	require.NoError(t, err)
	assert.True(t, got["08:00-10:00"])
	assert.False(t, got["10:00-12:00"])
}

func TestHTTPLookupFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewHTTPLookup(srv.URL, time.Second, 0).CheckAvailability(context.Background(), "a", at(0), []string{"x"})
		assert.ErrorContains(t, err, "503")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewHTTPLookup(srv.URL, 50*time.Millisecond, 0).ConflictingBookings(context.Background(), "a", at(10), at(11))
		assert.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := NewHTTPLookup(srv.URL, time.Second, 0).ConflictingBookings(context.Background(), "a", at(10), at(11))
		assert.ErrorContains(t, err, "decode")
	})

	t.Run("malformed conflict date", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(WireConflictReport{
				HasConflict: true,
				Conflicts:   []WireConflict{{ConflictType: "zone-conflict", TimeSlot: "10:00-11:00", Date: "26.05.2025"}},
			})
		}))
		defer srv.Close()

		l := NewHTTPLookup(srv.URL, time.Second, 0)
		_, err := l.ConflictingBookings(context.Background(), "a", at(10), at(11))
		assert.ErrorContains(t, err, "invalid conflict date")

		// The engine reports a degraded result instead of a zero-time conflict.
		res, err := NewEngine(l, nil, nil, time.UTC).CheckRealTimeConflicts(context.Background(), "a", at(10), at(11))
		require.NoError(t, err)
		assert.True(t, res.Degraded)
		assert.False(t, res.HasConflict)
		assert.Empty(t, res.Conflicts)
	})
}

func TestHeatmapOverFailingHTTPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewEngine(NewHTTPLookup(srv.URL, time.Second, 0), nil, nil, time.UTC)
	hm, err := e.AvailabilityHeatmap(context.Background(), "a", at(0), at(0).AddDate(0, 0, 1), []string{"08:00-10:00"})
	require.NoError(t, err)
	for _, d := range hm.Days {
		assert.True(t, d.Failed)
		assert.False(t, d.Slots["08:00-10:00"])
	}
}

func strPtr(s string) *string { return &s }

// resolverZones serves the lookup calls from a fixed snapshot.
type resolverZones struct {
	zone.Service
	zones    []*zone.Zone
	bookings []zone.ExistingBooking
	opts     zone.Options
}

func (s resolverZones) resolver() (*zone.Resolver, error) {
	return zone.NewResolver(s.zones, s.bookings, s.opts)
}

func (s resolverZones) GetByID(_ context.Context, id string) (*zone.Zone, error) {
	for _, z := range s.zones {
		if z.ID == id {
			return z, nil
		}
	}
	return nil, zone.ErrNotFound
}

func (s resolverZones) Snapshot(_ context.Context, _ string, _ []time.Time) (*zone.Resolver, error) {
	return s.resolver()
}

func (s resolverZones) CheckConflict(_ context.Context, zoneID string, date time.Time, slot string) (*zone.BookingConflict, error) {
	r, err := s.resolver()
	if err != nil {
		return nil, err
	}
	return r.CheckZoneConflict(zoneID, date, slot), nil
}

func (s resolverZones) Alternatives(_ context.Context, zoneID string, date time.Time, slot string, requiredCapacity int) ([]*zone.Zone, error) {
	r, err := s.resolver()
	if err != nil {
		return nil, err
	}
	return r.AlternativeZones(zoneID, date, slot, requiredCapacity), nil
}

func TestLocalLookup(t *testing.T) {
	day := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	zones := resolverZones{
		zones: []*zone.Zone{
			{ID: "hele", FacilityID: "fac", Name: "Gymsal-Hele", Capacity: 60, IsMainZone: true, SubZones: []string{"a", "b"}, IsActive: true},
			{ID: "a", FacilityID: "fac", Name: "Gymsal-A", Capacity: 30, ParentZoneID: strPtr("hele"), IsActive: true},
			{ID: "b", FacilityID: "fac", Name: "Gymsal-B", Capacity: 30, ParentZoneID: strPtr("hele"), IsActive: true},
		},
		bookings: []zone.ExistingBooking{{ID: "b1", ZoneID: "a", Date: day, TimeSlot: "14:00-16:00"}},
	}
	l := NewLocalLookup(zones, time.UTC)
	ctx := context.Background()

	report, err := l.ConflictingBookings(ctx, "hele", at(14), at(16))
	require.NoError(t, err)
	assert.True(t, report.HasConflict)
	assert.Equal(t, zone.ConflictSubZone, report.Conflicts[0].ConflictType)
	assert.Equal(t, []AlternativeZone{{ID: "b", Name: "Gymsal-B", Capacity: 30}}, report.Alternatives)

	report, err = l.ConflictingBookings(ctx, "b", at(14), at(16))
	require.NoError(t, err)
	assert.False(t, report.HasConflict)
	assert.Empty(t, report.Alternatives)

	avail, err := l.CheckAvailability(ctx, "hele", day, []string{"14:00-16:00", "16:00-18:00"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"14:00-16:00": false, "16:00-18:00": true}, avail)

	_, err = l.CheckAvailability(ctx, "missing", day, []string{"14:00-16:00"})
	assert.ErrorIs(t, err, zone.ErrNotFound)
}

func TestHeatmapFollowsZoneChanges(t *testing.T) {
	day := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	gymA := &zone.Zone{ID: "a", FacilityID: "fac", Name: "Gymsal-A", Capacity: 30, IsMainZone: true, IsActive: true}
	gymB := &zone.Zone{ID: "b", FacilityID: "fac", Name: "Gymsal-B", Capacity: 30, IsMainZone: true, IsActive: true}
	zones := resolverZones{
		zones:    []*zone.Zone{gymA, gymB},
		bookings: []zone.ExistingBooking{{ID: "b1", ZoneID: "b", Date: day, TimeSlot: "16:00-18:00"}},
		opts:     zone.Options{EnforcePeerRules: true},
	}
	e := NewEngine(NewLocalLookup(zones, time.UTC), newMemCache(), zones, time.UTC)
	ctx := context.Background()
	slots := []string{"14:00-16:00", "16:00-18:00"}

	heatmap := func(t *testing.T) map[string]bool {
		t.Helper()
		hm, err := e.AvailabilityHeatmap(ctx, "a", day, day, slots)
		require.NoError(t, err)
		require.Len(t, hm.Days, 1)
		return hm.Days[0].Slots
	}

	assert.Equal(t, map[string]bool{"14:00-16:00": true, "16:00-18:00": true}, heatmap(t))

	t.Run("Closed Zone", func(t *testing.T) {
		gymA.IsActive = false
		e.ZonesChanged(ctx, "fac")
		assert.Equal(t, map[string]bool{"14:00-16:00": false, "16:00-18:00": false}, heatmap(t))

		gymA.IsActive = true
		e.ZonesChanged(ctx, "fac")
		assert.Equal(t, map[string]bool{"14:00-16:00": true, "16:00-18:00": true}, heatmap(t))
	})

	t.Run("New Peer Rule", func(t *testing.T) {
		gymA.ConflictRules = []zone.ConflictRule{{ID: "r1", ZoneID: "a", ConflictingZoneID: "b", Type: zone.RuleMutuallyExclusive}}
		defer func() { gymA.ConflictRules = nil }()

		// Without a change notice the cached day is served.
		assert.Equal(t, map[string]bool{"14:00-16:00": true, "16:00-18:00": true}, heatmap(t))

		e.ZonesChanged(ctx, "fac")
		assert.Equal(t, map[string]bool{"14:00-16:00": true, "16:00-18:00": false}, heatmap(t))
	})
}
