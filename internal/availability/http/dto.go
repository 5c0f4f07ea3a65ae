package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/availability"
)

const dateLayout = "2006-01-02"

type TableQuery struct {
	Start     string   `form:"start" binding:"omitempty,datetime=2006-01-02"`
	TimeSlots []string `form:"time_slots"`
}

// StartDate returns the requested start day, or today in loc.
func (q TableQuery) StartDate(loc *time.Location) time.Time {
	if q.Start == "" {
		y, m, d := time.Now().In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	// Format is guaranteed by the datetime binding.
	t, _ := time.Parse(dateLayout, q.Start)
	return t
}

type CellResponse struct {
	TimeSlot string `json:"time_slot"`
	Status   string `json:"status"`
	Details  string `json:"details,omitempty"`
}

type DayResponse struct {
	Date  string         `json:"date"`
	Cells []CellResponse `json:"cells"`
}

type RowResponse struct {
	ZoneID        string        `json:"zone_id"`
	ZoneName      string        `json:"zone_name"`
	Capacity      int           `json:"capacity"`
	WholeFacility bool          `json:"whole_facility"`
	Days          []DayResponse `json:"days"`
}

type TableResponse struct {
	FacilityID   string        `json:"facility_id"`
	FacilityName string        `json:"facility_name"`
	Dates        []string      `json:"dates"`
	TimeSlots    []string      `json:"time_slots"`
	MainZones    []RowResponse `json:"main_zones"`
	SubZones     []RowResponse `json:"sub_zones"`
}

func newRows(rows []availability.Row, dates []time.Time, perDay int) []RowResponse {
	out := make([]RowResponse, len(rows))
	for i, row := range rows {
		days := make([]DayResponse, len(dates))
		for di, d := range dates {
			cells := make([]CellResponse, perDay)
			for si := 0; si < perDay; si++ {
				c := row.Cell(di, si, perDay)
				cells[si] = CellResponse{TimeSlot: c.TimeSlot, Status: string(c.Status), Details: c.Details}
			}
			days[di] = DayResponse{Date: d.Format(dateLayout), Cells: cells}
		}
		out[i] = RowResponse{
			ZoneID:        row.ZoneID,
			ZoneName:      row.ZoneName,
			Capacity:      row.Capacity,
			WholeFacility: row.WholeFacility,
			Days:          days,
		}
	}
	return out
}

func NewTableResponse(t *availability.Table) TableResponse {
	dates := make([]string, len(t.Dates))
	for i, d := range t.Dates {
		dates[i] = d.Format(dateLayout)
	}
	perDay := len(t.TimeSlots)
	return TableResponse{
		FacilityID:   t.FacilityID,
		FacilityName: t.FacilityName,
		Dates:        dates,
		TimeSlots:    t.TimeSlots,
		MainZones:    newRows(t.MainZones, t.Dates, perDay),
		SubZones:     newRows(t.SubZones, t.Dates, perDay),
	}
}
