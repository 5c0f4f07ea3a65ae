package zone

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
)

// BookingSource loads the bookings the resolver checks against.
type BookingSource interface {
	// ListExisting returns active bookings on any zone of the facility on any of the dates.
	ListExisting(ctx context.Context, facilityID string, dates []time.Time) ([]ExistingBooking, error)
}

// ChangeNotifier is told after zones or conflict rules of a facility change.
type ChangeNotifier interface {
	ZonesChanged(ctx context.Context, facilityID string)
}

// ChangeNotifierFunc adapts a function to ChangeNotifier.
type ChangeNotifierFunc func(ctx context.Context, facilityID string)

func (f ChangeNotifierFunc) ZonesChanged(ctx context.Context, facilityID string) {
	f(ctx, facilityID)
}

type CreateRequest struct {
	FacilityID            string
	Name                  string
	Type                  Type
	Capacity              int
	PricePerHour          *float64
	Equipment             []string
	Accessibility         []string
	IsMainZone            bool
	ParentZoneID          *string
	IsActive              bool
	BookableIndependently bool
}

type UpdateRequest struct {
	Name                  *string
	Type                  *Type
	Capacity              *int
	PricePerHour          *float64
	ClearPricePerHour     bool
	Equipment             *[]string
	Accessibility         *[]string
	IsActive              *bool
	BookableIndependently *bool
}

type CreateRuleRequest struct {
	ZoneID            string
	ConflictingZoneID string
	Type              RuleType
	Description       string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Zone, error)
	GetByID(ctx context.Context, id string) (*Zone, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*Zone, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Zone, error)
	Delete(ctx context.Context, id string) error

	AddConflictRule(ctx context.Context, req CreateRuleRequest) (*ConflictRule, error)
	// RemoveConflictRule deletes a rule declared by or against zoneID.
	RemoveConflictRule(ctx context.Context, zoneID, ruleID string) error

	// Snapshot builds a resolver over the facility's zones and its bookings on dates.
	Snapshot(ctx context.Context, facilityID string, dates []time.Time) (*Resolver, error)
	CheckConflict(ctx context.Context, zoneID string, date time.Time, slot string) (*BookingConflict, error)
	AvailabilityStatus(ctx context.Context, facilityID string, date time.Time, slot string) ([]AvailabilityStatus, error)
	CheckMultiSlot(ctx context.Context, zoneID string, dates []time.Time, slot string) (*MultiSlotResult, error)
	Alternatives(ctx context.Context, zoneID string, date time.Time, slot string, requiredCapacity int) ([]*Zone, error)
	Recommendations(ctx context.Context, facilityID string, requiredCapacity int, equipment []string, date time.Time, slot string) ([]*Zone, error)
}

type service struct {
	repo       Repository
	bookings   BookingSource
	facService facility.Service
	opts       Options
	notifier   ChangeNotifier
}

// NewService builds the zone service. notifier may be nil.
func NewService(repo Repository, bookings BookingSource, facService facility.Service, opts Options, notifier ChangeNotifier) Service {
	return &service{
		repo:       repo,
		bookings:   bookings,
		facService: facService,
		opts:       opts,
		notifier:   notifier,
	}
}

func (s *service) changed(ctx context.Context, facilityID string) {
	if s.notifier != nil {
		s.notifier.ZonesChanged(ctx, facilityID)
	}
}

func validateZone(z *Zone) error {
	if strings.TrimSpace(z.Name) == "" {
		return ErrEmptyName
	}
	if !z.Type.IsValid() {
		return ErrInvalidType
	}
	if z.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if z.PricePerHour != nil && *z.PricePerHour < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (s *service) requireFacility(ctx context.Context, facilityID string) error {
	if _, err := s.facService.GetByID(ctx, facilityID); err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return ErrFacilityNotFound
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Zone, error) {
	z := &Zone{
		FacilityID:            req.FacilityID,
		Name:                  strings.TrimSpace(req.Name),
		Type:                  req.Type,
		Capacity:              req.Capacity,
		PricePerHour:          req.PricePerHour,
		Equipment:             req.Equipment,
		Accessibility:         req.Accessibility,
		IsMainZone:            req.IsMainZone,
		ParentZoneID:          req.ParentZoneID,
		IsActive:              req.IsActive,
		BookableIndependently: req.BookableIndependently,
	}
	if err := validateZone(z); err != nil {
		return nil, err
	}
	if err := s.requireFacility(ctx, req.FacilityID); err != nil {
		return nil, err
	}

	// Hierarchy: main zones are roots, sub-zones hang directly below a main zone
	// of the same facility.
	if z.IsMainZone && z.ParentZoneID != nil {
		return nil, ErrInvalidHierarchy
	}
	if z.ParentZoneID != nil {
		parent, err := s.repo.GetByID(ctx, *z.ParentZoneID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrInvalidHierarchy
			}
			return nil, err
		}
		if !parent.IsMainZone {
			return nil, ErrInvalidHierarchy
		}
		if parent.FacilityID != z.FacilityID {
			return nil, ErrCrossFacilityParent
		}
	}

	if err := s.repo.Create(ctx, z); err != nil {
		return nil, err
	}
	s.changed(ctx, z.FacilityID)
	return z, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Zone, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByFacility(ctx context.Context, facilityID string) ([]*Zone, error) {
	if err := s.requireFacility(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.repo.ListByFacility(ctx, facilityID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Zone, error) {
	z, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		z.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		z.Type = *req.Type
	}
	if req.Capacity != nil {
		z.Capacity = *req.Capacity
	}
	if req.ClearPricePerHour {
		z.PricePerHour = nil
	} else if req.PricePerHour != nil {
		z.PricePerHour = req.PricePerHour
	}
	if req.Equipment != nil {
		z.Equipment = *req.Equipment
	}
	if req.Accessibility != nil {
		z.Accessibility = *req.Accessibility
	}
	if req.IsActive != nil {
		z.IsActive = *req.IsActive
	}
	if req.BookableIndependently != nil {
		z.BookableIndependently = *req.BookableIndependently
	}

	if err := validateZone(z); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, z); err != nil {
		return nil, err
	}
	s.changed(ctx, z.FacilityID)
	return z, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	z, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if len(z.SubZones) > 0 {
		return ErrHasSubZones
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, z.FacilityID)
	return nil
}

func (s *service) AddConflictRule(ctx context.Context, req CreateRuleRequest) (*ConflictRule, error) {
	if req.Type == "" {
		req.Type = RuleMutuallyExclusive
	}
	if req.Type != RuleMutuallyExclusive {
		return nil, ErrInvalidRuleType
	}
	if req.ZoneID == req.ConflictingZoneID {
		return nil, ErrSelfConflict
	}

	z, err := s.repo.GetByID(ctx, req.ZoneID)
	if err != nil {
		return nil, err
	}
	peer, err := s.repo.GetByID(ctx, req.ConflictingZoneID)
	if err != nil {
		return nil, err
	}
	if z.FacilityID != peer.FacilityID {
		return nil, ErrCrossFacilityParent
	}

	rule := &ConflictRule{
		ZoneID:            req.ZoneID,
		ConflictingZoneID: req.ConflictingZoneID,
		Type:              req.Type,
		Description:       strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.changed(ctx, z.FacilityID)
	return rule, nil
}

func (s *service) RemoveConflictRule(ctx context.Context, zoneID, ruleID string) error {
	rule, err := s.repo.GetRule(ctx, ruleID)
	if err != nil {
		return err
	}
	if rule.ZoneID != zoneID && rule.ConflictingZoneID != zoneID {
		return ErrRuleNotFound
	}
	z, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRule(ctx, ruleID); err != nil {
		return err
	}
	s.changed(ctx, z.FacilityID)
	return nil
}

func (s *service) Snapshot(ctx context.Context, facilityID string, dates []time.Time) (*Resolver, error) {
	zones, err := s.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListExisting(ctx, facilityID, dates)
	if err != nil {
		return nil, err
	}
	return NewResolver(zones, bookings, s.opts)
}

// snapshotForZone loads the zone and a resolver over its facility.
func (s *service) snapshotForZone(ctx context.Context, zoneID string, dates []time.Time) (*Resolver, error) {
	z, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, z.FacilityID, dates)
}

func (s *service) CheckConflict(ctx context.Context, zoneID string, date time.Time, slot string) (*BookingConflict, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, ErrInvalidTimeSlot
	}
	r, err := s.snapshotForZone(ctx, zoneID, []time.Time{date})
	if err != nil {
		return nil, err
	}
	return r.CheckZoneConflict(zoneID, date, slot), nil
}

func (s *service) AvailabilityStatus(ctx context.Context, facilityID string, date time.Time, slot string) ([]AvailabilityStatus, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, ErrInvalidTimeSlot
	}
	r, err := s.Snapshot(ctx, facilityID, []time.Time{date})
	if err != nil {
		return nil, err
	}
	return r.ZoneAvailabilityStatus(date, slot), nil
}

func (s *service) CheckMultiSlot(ctx context.Context, zoneID string, dates []time.Time, slot string) (*MultiSlotResult, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, ErrInvalidTimeSlot
	}
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	r, err := s.snapshotForZone(ctx, zoneID, dates)
	if err != nil {
		return nil, err
	}
	res := r.CheckMultiSlotAvailability(zoneID, dates, slot)
	return &res, nil
}

func (s *service) Alternatives(ctx context.Context, zoneID string, date time.Time, slot string, requiredCapacity int) ([]*Zone, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, ErrInvalidTimeSlot
	}
	r, err := s.snapshotForZone(ctx, zoneID, []time.Time{date})
	if err != nil {
		return nil, err
	}
	return r.AlternativeZones(zoneID, date, slot, requiredCapacity), nil
}

func (s *service) Recommendations(ctx context.Context, facilityID string, requiredCapacity int, equipment []string, date time.Time, slot string) ([]*Zone, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, ErrInvalidTimeSlot
	}
	r, err := s.Snapshot(ctx, facilityID, []time.Time{date})
	if err != nil {
		return nil, err
	}
	return r.BookingRecommendations(requiredCapacity, equipment, date, slot), nil
}
