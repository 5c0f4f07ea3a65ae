package pricing

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

type memRepo struct {
	rules []*PricingRule
	seq   int
}

func (m *memRepo) Create(_ context.Context, rule *PricingRule) error {
	m.seq++
	rule.ID = fmt.Sprintf("rule-%d", m.seq)
	cp := *rule
	m.rules = append(m.rules, &cp)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*PricingRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) List(_ context.Context, filter Filter) ([]*PricingRule, int, error) {
	var out []*PricingRule
	for _, r := range m.rules {
		if filter.FacilityID == "" || r.FacilityID == filter.FacilityID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) ListActive(_ context.Context, facilityID string) ([]*PricingRule, error) {
	var out []*PricingRule
	for _, r := range m.rules {
		if r.FacilityID == facilityID && r.IsActive {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, rule *PricingRule) error {
	for i, r := range m.rules {
		if r.ID == rule.ID {
			cp := *rule
			m.rules[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type stubFacilities struct {
	facility.Service
}

func (stubFacilities) GetByID(_ context.Context, id string) (*facility.Facility, error) {
	if id != "fac" {
		return nil, facility.ErrNotFound
	}
	return &facility.Facility{ID: "fac", Name: "Idrettshall", PricePerHour: 500}, nil
}

type stubZones struct {
	zone.Service
	zones map[string]*zone.Zone
}

func (s stubZones) GetByID(_ context.Context, id string) (*zone.Zone, error) {
	z, ok := s.zones[id]
	if !ok {
		return nil, zone.ErrNotFound
	}
	return z, nil
}

func newTestService() (Service, *memRepo) {
	price := 450.0
	repo := &memRepo{}
	zones := stubZones{zones: map[string]*zone.Zone{
		"gymsal-a": {ID: "gymsal-a", FacilityID: "fac", PricePerHour: &price},
		"gymsal-b": {ID: "gymsal-b", FacilityID: "fac"},
		"foreign":  {ID: "foreign", FacilityID: "other"},
	}}
	return NewService(repo, stubFacilities{}, zones, time.UTC), repo
}

func TestCalculatePriceZoneOverride(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{
		FacilityID: "fac", Name: "Medlemsrabatt", Priority: 10, IsActive: true,
		DiscountType: DiscountPercentage, DiscountValue: 20, IsExclusive: true,
	})
	require.NoError(t, err)

	start := time.Date(2025, 5, 25, 14, 0, 0, 0, time.UTC)
	q, err := svc.CalculatePrice(ctx, CalculateRequest{FacilityID: "fac", ZoneID: "gymsal-a", Start: start, End: start.Add(2 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, 450.0, q.HourlyRate)
	assert.InDelta(t, 900, q.BasePrice, 1e-9)
	assert.InDelta(t, 720, q.FinalPrice, 1e-9)
	assert.Len(t, q.AppliedRules, 1)
}

func TestCalculatePriceInheritsFacilityRate(t *testing.T) {
	svc, _ := newTestService()

	start := time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC)
	q, err := svc.CalculatePrice(context.Background(), CalculateRequest{FacilityID: "fac", ZoneID: "gymsal-b", Start: start, End: start.Add(90 * time.Minute)})
	require.NoError(t, err)

	assert.Equal(t, 500.0, q.HourlyRate)
	assert.InDelta(t, 750, q.FinalPrice, 1e-9)
}

func TestCalculatePriceErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	start := time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     CalculateRequest
		wantErr error
	}{
		{name: "unknown facility", req: CalculateRequest{FacilityID: "nope", Start: start, End: start.Add(time.Hour)}, wantErr: ErrFacilityNotFound},
		{name: "unknown zone", req: CalculateRequest{FacilityID: "fac", ZoneID: "nope", Start: start, End: start.Add(time.Hour)}, wantErr: ErrZoneNotFound},
		{name: "zone of other facility", req: CalculateRequest{FacilityID: "fac", ZoneID: "foreign", Start: start, End: start.Add(time.Hour)}, wantErr: ErrZoneFacilityMismatch},
		{name: "empty range", req: CalculateRequest{FacilityID: "fac", Start: start, End: start}, wantErr: ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CalculatePrice(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateRuleValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	valid := func() CreateRequest {
		return CreateRequest{FacilityID: "fac", Name: "Kveld", DiscountType: DiscountFixed, DiscountValue: 50}
	}

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{name: "empty name", mutate: func(r *CreateRequest) { r.Name = " " }, wantErr: ErrNameRequired},
		{name: "bad type", mutate: func(r *CreateRequest) { r.DiscountType = "bogo" }, wantErr: ErrInvalidDiscountType},
		{name: "percentage above 100", mutate: func(r *CreateRequest) { r.DiscountType, r.DiscountValue = DiscountPercentage, 120 }, wantErr: ErrInvalidDiscountValue},
		{name: "negative override", mutate: func(r *CreateRequest) { r.DiscountType, r.DiscountValue = DiscountOverride, -1 }, wantErr: ErrInvalidDiscountValue},
		{name: "day out of range", mutate: func(r *CreateRequest) { r.DaysOfWeek = []int{7} }, wantErr: ErrInvalidDayOfWeek},
		{name: "reversed window", mutate: func(r *CreateRequest) { r.StartTime, r.EndTime = strPtr("22:00"), strPtr("17:00") }, wantErr: ErrInvalidTimeWindow},
		{name: "malformed time", mutate: func(r *CreateRequest) { r.StartTime = strPtr("kl 5") }, wantErr: ErrInvalidTimeWindow},
		{name: "reversed validity", mutate: func(r *CreateRequest) { r.ValidFrom, r.ValidTo = datePtr(2025, 6, 1), datePtr(2025, 5, 1) }, wantErr: ErrInvalidValidity},
		{name: "unknown facility", mutate: func(r *CreateRequest) { r.FacilityID = "nope" }, wantErr: ErrFacilityNotFound},
		{name: "zone of other facility", mutate: func(r *CreateRequest) { r.ZoneID = strPtr("foreign") }, wantErr: ErrZoneFacilityMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateRule(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rule, err := svc.Create(ctx, CreateRequest{
		FacilityID: "fac", ZoneID: strPtr("gymsal-a"), Name: "Kveld", IsActive: true,
		StartTime: strPtr("17:00"), EndTime: strPtr("22:00"),
		DiscountType: DiscountFixed, DiscountValue: 50,
	})
	require.NoError(t, err)

	value := 75.0
	updated, err := svc.Update(ctx, rule.ID, UpdateRequest{DiscountValue: &value, ClearZoneID: true, ClearTimes: true})
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.DiscountValue)
	assert.Nil(t, updated.ZoneID)
	assert.Nil(t, updated.StartTime)

	stored, err := repo.GetByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, stored.DiscountValue)

	bad := DiscountType("bogo")
	_, err = svc.Update(ctx, rule.ID, UpdateRequest{DiscountType: &bad})
	assert.ErrorIs(t, err, ErrInvalidDiscountType)

	require.NoError(t, svc.Delete(ctx, rule.ID))
	_, err = svc.GetByID(ctx, rule.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
