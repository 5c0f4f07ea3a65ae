package booking

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/facility-booking-backend/internal/holiday"
	"github.com/nekogravitycat/facility-booking-backend/internal/pricing"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

// DayChecker decides whether a calendar day accepts bookings at all.
type DayChecker interface {
	IsDateUnavailable(date time.Time) holiday.Unavailability
}

// DayInvalidator is told about every day whose bookings changed.
type DayInvalidator interface {
	InvalidateDay(ctx context.Context, date time.Time)
}

type CreateRequest struct {
	ZoneID     string
	UserID     string
	BookedBy   string
	Date       time.Time
	TimeSlot   string
	UserGroups []string
}

type RecurringRequest struct {
	ZoneID     string
	UserID     string
	BookedBy   string
	Dates      []time.Time
	TimeSlot   string
	UserGroups []string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	CreateRecurring(ctx context.Context, req RecurringRequest) ([]*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, userID string, isAdmin bool) (*Booking, error)
	Cancel(ctx context.Context, id string, userID string, isAdmin bool) (*Booking, error)
}

type service struct {
	repo        Repository
	zoneService zone.Service
	pricing     pricing.Service
	days        DayChecker
	invalidator DayInvalidator
	loc         *time.Location
}

func NewService(
	repo Repository,
	zoneService zone.Service,
	pricingService pricing.Service,
	days DayChecker,
	invalidator DayInvalidator,
	loc *time.Location,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:        repo,
		zoneService: zoneService,
		pricing:     pricingService,
		days:        days,
		invalidator: invalidator,
		loc:         loc,
	}
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// bookableZone loads the zone and checks it accepts bookings on its own.
func (s *service) bookableZone(ctx context.Context, zoneID string) (*zone.Zone, error) {
	z, err := s.zoneService.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	if !z.IsActive {
		return nil, ErrZoneInactive
	}
	if !z.IsMainZone && !z.BookableIndependently {
		return nil, ErrZoneNotBookable
	}
	return z, nil
}

func (s *service) checkDay(date time.Time) error {
	if s.days == nil {
		return nil
	}
	if u := s.days.IsDateUnavailable(date); u.IsUnavailable {
		return &UnavailableDateError{Date: date, Reason: u.Reason, Details: u.Details}
	}
	return nil
}

func (s *service) price(ctx context.Context, z *zone.Zone, date time.Time, slot zone.SlotRange, groups []string) (float64, error) {
	start, end := slot.On(date, s.loc)
	quote, err := s.pricing.CalculatePrice(ctx, pricing.CalculateRequest{
		FacilityID: z.FacilityID,
		ZoneID:     z.ID,
		Start:      start,
		End:        end,
		UserGroups: groups,
	})
	if err != nil {
		return 0, err
	}
	return quote.FinalPrice, nil
}

func (s *service) invalidate(ctx context.Context, dates ...time.Time) {
	if s.invalidator == nil {
		return
	}
	for _, d := range dates {
		s.invalidator.InvalidateDay(ctx, d)
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	label := strings.TrimSpace(req.TimeSlot)
	slot, err := zone.ParseSlot(label)
	if err != nil {
		return nil, ErrInvalidTimeSlot
	}
	bookedBy := strings.TrimSpace(req.BookedBy)
	if bookedBy == "" {
		return nil, ErrBookedByRequired
	}
	date := calendarDay(req.Date)

	z, err := s.bookableZone(ctx, req.ZoneID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDay(date); err != nil {
		return nil, err
	}

	conflict, err := s.zoneService.CheckConflict(ctx, z.ID, date, label)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &ConflictError{Conflicts: []zone.BookingConflict{*conflict}}
	}

	price, err := s.price(ctx, z, date, slot, req.UserGroups)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ZoneID:     z.ID,
		ZoneName:   z.Name,
		FacilityID: z.FacilityID,
		UserID:     req.UserID,
		BookedBy:   bookedBy,
		Date:       date,
		TimeSlot:   label,
		Price:      price,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx, date)

	log.Printf("booking %s created: zone=%s date=%s slot=%s", b.ID, b.ZoneID, date.Format("2006-01-02"), label)
	return b, nil
}

// uniqueDays normalizes dates to calendar days, drops duplicates and sorts them.
func uniqueDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := calendarDay(d)
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s *service) CreateRecurring(ctx context.Context, req RecurringRequest) ([]*Booking, error) {
	label := strings.TrimSpace(req.TimeSlot)
	slot, err := zone.ParseSlot(label)
	if err != nil {
		return nil, ErrInvalidTimeSlot
	}
	bookedBy := strings.TrimSpace(req.BookedBy)
	if bookedBy == "" {
		return nil, ErrBookedByRequired
	}
	dates := uniqueDays(req.Dates)
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	if len(dates) > MaxRecurringDates {
		return nil, ErrTooManyDates
	}

	z, err := s.bookableZone(ctx, req.ZoneID)
	if err != nil {
		return nil, err
	}
	for _, d := range dates {
		if err := s.checkDay(d); err != nil {
			return nil, err
		}
	}

	res, err := s.zoneService.CheckMultiSlot(ctx, z.ID, dates, label)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, &ConflictError{Conflicts: res.Conflicts}
	}

	recurrenceID := uuid.NewString()
	bookings := make([]*Booking, len(dates))
	for i, d := range dates {
		price, err := s.price(ctx, z, d, slot, req.UserGroups)
		if err != nil {
			return nil, err
		}
		bookings[i] = &Booking{
			ZoneID:       z.ID,
			ZoneName:     z.Name,
			FacilityID:   z.FacilityID,
			UserID:       req.UserID,
			BookedBy:     bookedBy,
			Date:         d,
			TimeSlot:     label,
			Price:        price,
			Status:       StatusPending,
			RecurrenceID: &recurrenceID,
		}
	}

	if err := s.repo.CreateMany(ctx, bookings); err != nil {
		return nil, err
	}
	s.invalidate(ctx, dates...)

	log.Printf("recurring booking %s created: zone=%s occurrences=%d slot=%s", recurrenceID, z.ID, len(bookings), label)
	return bookings, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdateStatus lets admins move a booking between states. Owners may only cancel.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status, userID string, isAdmin bool) (*Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := b.UserID == userID
	if !isAdmin && !(isOwner && status == StatusCancelled) {
		return nil, ErrPermissionDenied
	}
	if b.Status == status {
		if status == StatusCancelled {
			return nil, ErrAlreadyCancelled
		}
		return b, nil
	}

	// A cancelled booking no longer holds its slot; reactivating it must pass the resolver again.
	if b.Status == StatusCancelled {
		conflict, err := s.zoneService.CheckConflict(ctx, b.ZoneID, b.Date, b.TimeSlot)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, &ConflictError{Conflicts: []zone.BookingConflict{*conflict}}
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	b.Status = status
	s.invalidate(ctx, b.Date)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, userID string, isAdmin bool) (*Booking, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled, userID, isAdmin)
}
