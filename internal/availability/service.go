package availability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

var (
	ErrFacilityNotFound = apperror.New(http.StatusNotFound, "facility not found")
	ErrNoTimeSlots      = apperror.New(http.StatusBadRequest, "facility has no bookable time slots")
)

type Service interface {
	// Table builds the grid for DefaultDays days from start. Empty slots fall
	// back to the facility opening hours in DefaultSlotLength blocks.
	Table(ctx context.Context, facilityID string, start time.Time, slots []string) (*Table, error)
	PDF(ctx context.Context, facilityID string, start time.Time, slots []string) ([]byte, error)
}

type service struct {
	facService  facility.Service
	zoneService zone.Service
	days        DayChecker
}

func NewService(facService facility.Service, zoneService zone.Service, days DayChecker) Service {
	return &service{
		facService:  facService,
		zoneService: zoneService,
		days:        days,
	}
}

func (s *service) Table(ctx context.Context, facilityID string, start time.Time, slots []string) (*Table, error) {
	f, err := s.facService.GetByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	if len(slots) == 0 {
		slots, err = SlotsBetween(f.OpeningHoursStart, f.OpeningHoursEnd, DefaultSlotLength)
		if err != nil {
			return nil, err
		}
	}
	if len(slots) == 0 {
		return nil, ErrNoTimeSlots
	}

	dates := Dates(start, DefaultDays)
	r, err := s.zoneService.Snapshot(ctx, facilityID, dates)
	if err != nil {
		return nil, err
	}

	t := Build(Input{
		Resolver:  r,
		Days:      s.days,
		StartDate: start,
		NumDays:   DefaultDays,
		TimeSlots: slots,
	})
	t.FacilityID = f.ID
	t.FacilityName = f.Name
	return t, nil
}

func (s *service) PDF(ctx context.Context, facilityID string, start time.Time, slots []string) ([]byte, error) {
	t, err := s.Table(ctx, facilityID, start, slots)
	if err != nil {
		return nil, err
	}
	return RenderPDF(t)
}
