package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/suggestion"
	zoneHttp "github.com/nekogravitycat/facility-booking-backend/internal/zone/http"
)

const dateLayout = "2006-01-02"

type IntervalQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type HeatmapQuery struct {
	StartDate string   `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string   `form:"end_date" binding:"required,datetime=2006-01-02"`
	TimeSlots []string `form:"time_slots" binding:"required,min=1"`
}

// Dates returns the parsed range. Format is guaranteed by the datetime binding.
func (q HeatmapQuery) Dates() (time.Time, time.Time) {
	start, _ := time.Parse(dateLayout, q.StartDate)
	end, _ := time.Parse(dateLayout, q.EndDate)
	return start, end
}

type SuggestionsQuery struct {
	Date      string   `form:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot  string   `form:"time_slot" binding:"required"`
	Capacity  int      `form:"capacity" binding:"min=0"`
	Equipment []string `form:"equipment"`
}

func (q SuggestionsQuery) ParsedDate() time.Time {
	d, _ := time.Parse(dateLayout, q.Date)
	return d
}

type AlternativeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type RealTimeResponse struct {
	HasConflict     bool                        `json:"has_conflict"`
	Conflicts       []zoneHttp.ConflictResponse `json:"conflicts"`
	Alternatives    []AlternativeResponse       `json:"alternatives"`
	Recommendations []string                    `json:"recommendations"`
	Degraded        bool                        `json:"degraded"`
}

func NewRealTimeResponse(r *suggestion.RealTimeResult) RealTimeResponse {
	conflicts := make([]zoneHttp.ConflictResponse, len(r.Conflicts))
	for i := range r.Conflicts {
		conflicts[i] = *zoneHttp.NewConflictResponse(&r.Conflicts[i])
	}
	alts := make([]AlternativeResponse, len(r.Alternatives))
	for i, a := range r.Alternatives {
		alts[i] = AlternativeResponse{ID: a.ID, Name: a.Name, Capacity: a.Capacity}
	}
	return RealTimeResponse{
		HasConflict:     r.HasConflict,
		Conflicts:       conflicts,
		Alternatives:    alts,
		Recommendations: r.Recommendations,
		Degraded:        r.Degraded,
	}
}

type HeatmapDayResponse struct {
	Date   string          `json:"date"`
	Slots  map[string]bool `json:"slots"`
	Failed bool            `json:"failed,omitempty"`
}

type HeatmapResponse struct {
	ZoneID    string               `json:"zone_id"`
	TimeSlots []string             `json:"time_slots"`
	Days      []HeatmapDayResponse `json:"days"`
}

func NewHeatmapResponse(h *suggestion.Heatmap) HeatmapResponse {
	days := make([]HeatmapDayResponse, len(h.Days))
	for i, d := range h.Days {
		days[i] = HeatmapDayResponse{Date: d.Date.Format(dateLayout), Slots: d.Slots, Failed: d.Failed}
	}
	return HeatmapResponse{ZoneID: h.ZoneID, TimeSlots: h.TimeSlots, Days: days}
}

type SuggestionResponse struct {
	Zone   zoneHttp.ZoneResponse `json:"zone"`
	Score  int                   `json:"score"`
	Reason string                `json:"reason"`
}

func NewSuggestionListResponse(items []suggestion.AlternativeZoneSuggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, len(items))
	for i, s := range items {
		out[i] = SuggestionResponse{Zone: zoneHttp.NewZoneResponse(s.Zone), Score: s.Score, Reason: s.Reason}
	}
	return out
}
