package suggestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

const wireDateLayout = "2006-01-02"

// Wire types of the booking service. The same shapes are served by this
// application's own lookup endpoints.

type WireConflict struct {
	ConflictType         string `json:"conflict_type"`
	ConflictingBookingID string `json:"conflicting_booking_id"`
	ConflictingZoneID    string `json:"conflicting_zone_id"`
	ConflictingZoneName  string `json:"conflicting_zone_name"`
	TimeSlot             string `json:"time_slot"`
	Date                 string `json:"date"`
	BookedBy             string `json:"booked_by"`
}

type WireAlternative struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type WireConflictReport struct {
	HasConflict  bool              `json:"has_conflict"`
	Conflicts    []WireConflict    `json:"conflicts"`
	Alternatives []WireAlternative `json:"alternatives"`
}

type WireAvailabilityRequest struct {
	Date      string   `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlots []string `json:"time_slots" binding:"required,min=1"`
}

type WireAvailabilityResponse struct {
	Availability map[string]bool `json:"availability"`
}

// NewWireConflictReport converts a report into its wire form.
func NewWireConflictReport(r *ConflictReport) WireConflictReport {
	out := WireConflictReport{
		HasConflict:  r.HasConflict,
		Conflicts:    make([]WireConflict, len(r.Conflicts)),
		Alternatives: make([]WireAlternative, len(r.Alternatives)),
	}
	for i, c := range r.Conflicts {
		out.Conflicts[i] = WireConflict{
			ConflictType:         string(c.ConflictType),
			ConflictingBookingID: c.ConflictingBookingID,
			ConflictingZoneID:    c.ConflictingZoneID,
			ConflictingZoneName:  c.ConflictingZoneName,
			TimeSlot:             c.TimeSlot,
			Date:                 c.Date.Format(wireDateLayout),
			BookedBy:             c.BookedBy,
		}
	}
	for i, a := range r.Alternatives {
		out.Alternatives[i] = WireAlternative{ID: a.ID, Name: a.Name, Capacity: a.Capacity}
	}
	return out
}

func (w WireConflictReport) report() (*ConflictReport, error) {
	r := &ConflictReport{
		HasConflict:  w.HasConflict,
		Conflicts:    make([]zone.BookingConflict, 0, len(w.Conflicts)),
		Alternatives: make([]AlternativeZone, 0, len(w.Alternatives)),
	}
	for _, c := range w.Conflicts {
		date, err := time.Parse(wireDateLayout, c.Date)
		if err != nil {
			return nil, fmt.Errorf("booking service: invalid conflict date %q: %w", c.Date, err)
		}
		r.Conflicts = append(r.Conflicts, zone.BookingConflict{
			ConflictType:         zone.ConflictType(c.ConflictType),
			ConflictingBookingID: c.ConflictingBookingID,
			ConflictingZoneID:    c.ConflictingZoneID,
			ConflictingZoneName:  c.ConflictingZoneName,
			TimeSlot:             c.TimeSlot,
			Date:                 date,
			BookedBy:             c.BookedBy,
		})
	}
	for _, a := range w.Alternatives {
		r.Alternatives = append(r.Alternatives, AlternativeZone{ID: a.ID, Name: a.Name, Capacity: a.Capacity})
	}
	return r, nil
}

// HTTPLookup calls a remote booking service. Every call is bounded by the
// client timeout and throttled by a token bucket.
type HTTPLookup struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewHTTPLookup returns a lookup for baseURL. rps <= 0 disables throttling.
func NewHTTPLookup(baseURL string, timeout time.Duration, rps float64) *HTTPLookup {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &HTTPLookup{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (h *HTTPLookup) do(req *http.Request, out any) error {
	if err := h.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("booking service throttled: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("booking service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("booking service: unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("booking service: decode response failed: %w", err)
	}
	return nil
}

func (h *HTTPLookup) ConflictingBookings(ctx context.Context, zoneID string, start, end time.Time) (*ConflictReport, error) {
	q := nurl.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))
	url := fmt.Sprintf("%s/zones/%s/conflicts?%s", h.baseURL, nurl.PathEscape(zoneID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var wire WireConflictReport
	if err := h.do(req, &wire); err != nil {
		return nil, err
	}
	return wire.report()
}

func (h *HTTPLookup) CheckAvailability(ctx context.Context, zoneID string, date time.Time, slots []string) (map[string]bool, error) {
	body, err := json.Marshal(WireAvailabilityRequest{Date: date.Format(wireDateLayout), TimeSlots: slots})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/zones/%s/availability", h.baseURL, nurl.PathEscape(zoneID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var wire WireAvailabilityResponse
	if err := h.do(req, &wire); err != nil {
		return nil, err
	}
	return wire.Availability, nil
}
