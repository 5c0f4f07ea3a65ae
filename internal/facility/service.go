package facility

import (
	"context"
	"strings"
	"time"
)

// CreateRequest carries data to create a facility.
type CreateRequest struct {
	Name              string
	Address           string
	Description       string
	PricePerHour      float64
	OpeningHoursStart string
	OpeningHoursEnd   string
	IsActive          bool
}

// UpdateRequest carries data for partial updates.
type UpdateRequest struct {
	Name              *string
	Address           *string
	Description       *string
	PricePerHour      *float64
	OpeningHoursStart *string
	OpeningHoursEnd   *string
	IsActive          *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Facility, error)
	GetByID(ctx context.Context, id string) (*Facility, error)
	List(ctx context.Context, filter Filter) ([]*Facility, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Facility, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// validateFacility checks the logical rules for a Facility struct.
func validateFacility(f *Facility) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if f.PricePerHour < 0 {
		return ErrInvalidPrice
	}

	// Accepts HH:MM or HH:MM:SS
	start, err1 := parseClock(f.OpeningHoursStart)
	end, err2 := parseClock(f.OpeningHoursEnd)
	if err1 != nil || err2 != nil {
		return ErrInvalidOpeningHours
	}

	// Single-day operation hours
	if !start.Before(end) {
		return ErrInvalidOpeningHours
	}
	return nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	return t, err
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Facility, error) {
	f := &Facility{
		Name:              strings.TrimSpace(req.Name),
		Address:           req.Address,
		Description:       req.Description,
		PricePerHour:      req.PricePerHour,
		OpeningHoursStart: req.OpeningHoursStart,
		OpeningHoursEnd:   req.OpeningHoursEnd,
		IsActive:          req.IsActive,
	}
	if err := validateFacility(f); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Facility, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Facility, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply non-nil fields
	if req.Name != nil {
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		f.Address = *req.Address
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.PricePerHour != nil {
		f.PricePerHour = *req.PricePerHour
	}
	if req.OpeningHoursStart != nil {
		f.OpeningHoursStart = *req.OpeningHoursStart
	}
	if req.OpeningHoursEnd != nil {
		f.OpeningHoursEnd = *req.OpeningHoursEnd
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}

	if err := validateFacility(f); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
