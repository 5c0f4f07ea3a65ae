package facility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items map[string]*Facility
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*Facility{}}
}

func (m *memRepo) Create(_ context.Context, f *Facility) error {
	f.ID = "fac-1"
	cp := *f
	m.items[f.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Facility, error) {
	f, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, _ Filter) ([]*Facility, int, error) {
	var out []*Facility
	for _, f := range m.items {
		out = append(out, f)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(_ context.Context, f *Facility) error {
	if _, ok := m.items[f.ID]; !ok {
		return ErrNotFound
	}
	cp := *f
	m.items[f.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func TestCreateValidation(t *testing.T) {
	valid := CreateRequest{
		Name:              "Idrettshallen",
		PricePerHour:      500,
		OpeningHoursStart: "07:00",
		OpeningHoursEnd:   "22:00",
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *CreateRequest) {}},
		{name: "seconds accepted", mutate: func(r *CreateRequest) { r.OpeningHoursEnd = "22:00:00" }},
		{name: "blank name", mutate: func(r *CreateRequest) { r.Name = "   " }, wantErr: ErrNameRequired},
		{name: "negative price", mutate: func(r *CreateRequest) { r.PricePerHour = -1 }, wantErr: ErrInvalidPrice},
		{name: "closing before opening", mutate: func(r *CreateRequest) { r.OpeningHoursEnd = "06:00" }, wantErr: ErrInvalidOpeningHours},
		{name: "garbage hours", mutate: func(r *CreateRequest) { r.OpeningHoursStart = "morning" }, wantErr: ErrInvalidOpeningHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemRepo())
			req := valid
			tt.mutate(&req)

			f, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "fac-1", f.ID)
		})
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "Hall", PricePerHour: 300, OpeningHoursStart: "08:00", OpeningHoursEnd: "20:00"})
	require.NoError(t, err)

	price := 450.0
	f, err := svc.Update(ctx, "fac-1", UpdateRequest{PricePerHour: &price})
	require.NoError(t, err)
	assert.Equal(t, 450.0, f.PricePerHour)
	assert.Equal(t, "Hall", f.Name)

	_, err = svc.Update(ctx, "missing", UpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
