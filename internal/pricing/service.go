package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

// CalculateRequest is a booking to price.
type CalculateRequest struct {
	FacilityID string
	ZoneID     string // optional; a zone price overrides the facility rate
	Start      time.Time
	End        time.Time
	UserGroups []string
}

type CreateRequest struct {
	FacilityID    string
	ZoneID        *string
	Name          string
	Priority      int
	IsActive      bool
	DaysOfWeek    []int
	StartTime     *string
	EndTime       *string
	ValidFrom     *time.Time
	ValidTo       *time.Time
	UserGroups    []string
	DiscountType  DiscountType
	DiscountValue float64
	IsExclusive   bool
}

// UpdateRequest carries data for partial updates. Clear* flags null the matching field.
type UpdateRequest struct {
	Name          *string
	ZoneID        *string
	ClearZoneID   bool
	Priority      *int
	IsActive      *bool
	DaysOfWeek    *[]int
	StartTime     *string
	EndTime       *string
	ClearTimes    bool
	ValidFrom     *time.Time
	ValidTo       *time.Time
	ClearValidity bool
	UserGroups    *[]string
	DiscountType  *DiscountType
	DiscountValue *float64
	IsExclusive   *bool
}

type Service interface {
	CalculatePrice(ctx context.Context, req CalculateRequest) (*Quote, error)

	Create(ctx context.Context, req CreateRequest) (*PricingRule, error)
	GetByID(ctx context.Context, id string) (*PricingRule, error)
	List(ctx context.Context, filter Filter) ([]*PricingRule, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*PricingRule, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	facService  facility.Service
	zoneService zone.Service
	loc         *time.Location
}

func NewService(repo Repository, facService facility.Service, zoneService zone.Service, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:        repo,
		facService:  facService,
		zoneService: zoneService,
		loc:         loc,
	}
}

func (s *service) CalculatePrice(ctx context.Context, req CalculateRequest) (*Quote, error) {
	if !req.End.After(req.Start) {
		return nil, ErrInvalidTimeRange
	}

	f, err := s.facService.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	rate := f.PricePerHour

	if req.ZoneID != "" {
		z, err := s.zoneService.GetByID(ctx, req.ZoneID)
		if err != nil {
			if errors.Is(err, zone.ErrNotFound) {
				return nil, ErrZoneNotFound
			}
			return nil, err
		}
		if z.FacilityID != f.ID {
			return nil, ErrZoneFacilityMismatch
		}
		if z.PricePerHour != nil {
			rate = *z.PricePerHour
		}
	}

	rules, err := s.repo.ListActive(ctx, f.ID)
	if err != nil {
		return nil, err
	}

	q := Evaluate(rules, rate, EvalRequest{
		ZoneID:     req.ZoneID,
		Start:      req.Start,
		End:        req.End,
		UserGroups: req.UserGroups,
	}, s.loc)
	return &q, nil
}

// validateRule checks the logical rules for a PricingRule struct.
func validateRule(rule *PricingRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return ErrNameRequired
	}
	if !rule.DiscountType.IsValid() {
		return ErrInvalidDiscountType
	}
	switch rule.DiscountType {
	case DiscountPercentage:
		if rule.DiscountValue > 100 {
			return ErrInvalidDiscountValue
		}
	case DiscountOverride:
		if rule.DiscountValue < 0 {
			return ErrInvalidDiscountValue
		}
	}
	for _, d := range rule.DaysOfWeek {
		if d < 0 || d > 6 {
			return ErrInvalidDayOfWeek
		}
	}

	from, to := 0, 24*60-1
	var err error
	if rule.StartTime != nil {
		if from, err = minuteOfDay(*rule.StartTime); err != nil {
			return ErrInvalidTimeWindow
		}
	}
	if rule.EndTime != nil {
		if to, err = minuteOfDay(*rule.EndTime); err != nil {
			return ErrInvalidTimeWindow
		}
	}
	if from > to {
		return ErrInvalidTimeWindow
	}

	if rule.ValidFrom != nil && rule.ValidTo != nil && rule.ValidFrom.After(*rule.ValidTo) {
		return ErrInvalidValidity
	}
	return nil
}

func (s *service) requireZoneOf(ctx context.Context, facilityID string, zoneID *string) error {
	if zoneID == nil {
		return nil
	}
	z, err := s.zoneService.GetByID(ctx, *zoneID)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			return ErrZoneNotFound
		}
		return err
	}
	if z.FacilityID != facilityID {
		return ErrZoneFacilityMismatch
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*PricingRule, error) {
	rule := &PricingRule{
		FacilityID:    req.FacilityID,
		ZoneID:        req.ZoneID,
		Name:          strings.TrimSpace(req.Name),
		Priority:      req.Priority,
		IsActive:      req.IsActive,
		DaysOfWeek:    req.DaysOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		UserGroups:    req.UserGroups,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsExclusive:   req.IsExclusive,
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	if _, err := s.facService.GetByID(ctx, req.FacilityID); err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	if err := s.requireZoneOf(ctx, req.FacilityID, req.ZoneID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*PricingRule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*PricingRule, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*PricingRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClearZoneID {
		rule.ZoneID = nil
	} else if req.ZoneID != nil {
		if err := s.requireZoneOf(ctx, rule.FacilityID, req.ZoneID); err != nil {
			return nil, err
		}
		rule.ZoneID = req.ZoneID
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.DaysOfWeek != nil {
		rule.DaysOfWeek = *req.DaysOfWeek
	}
	if req.ClearTimes {
		rule.StartTime, rule.EndTime = nil, nil
	} else {
		if req.StartTime != nil {
			rule.StartTime = req.StartTime
		}
		if req.EndTime != nil {
			rule.EndTime = req.EndTime
		}
	}
	if req.ClearValidity {
		rule.ValidFrom, rule.ValidTo = nil, nil
	} else {
		if req.ValidFrom != nil {
			rule.ValidFrom = req.ValidFrom
		}
		if req.ValidTo != nil {
			rule.ValidTo = req.ValidTo
		}
	}
	if req.UserGroups != nil {
		rule.UserGroups = *req.UserGroups
	}
	if req.DiscountType != nil {
		rule.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		rule.DiscountValue = *req.DiscountValue
	}
	if req.IsExclusive != nil {
		rule.IsExclusive = *req.IsExclusive
	}

	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
