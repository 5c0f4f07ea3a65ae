package availability

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

var statusFill = map[Status][3]int{
	StatusFree:          {198, 239, 206},
	StatusBooked:        {255, 199, 206},
	StatusWholeFacility: {255, 170, 170},
	StatusZoneBooked:    {255, 221, 170},
	StatusWeekend:       {230, 230, 230},
	StatusHoliday:       {220, 220, 245},
	StatusMaintenance:   {240, 240, 200},
	StatusPast:          {210, 210, 210},
}

// RenderPDF lays the table out on landscape A4 pages, one page per day.
func RenderPDF(t *Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Tilgjengelighet "+t.FacilityName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	const (
		zoneColW = 60.0
		rowH     = 8.0
	)
	slotW := 0.0
	if len(t.TimeSlots) > 0 {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		slotW = (pageW - left - right - zoneColW) / float64(len(t.TimeSlots))
	}
	perDay := len(t.TimeSlots)

	for di, d := range t.Dates {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(0, 10, tr(fmt.Sprintf("%s - %s", t.FacilityName, d.Format("02.01.2006"))))
		pdf.Ln(12)

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(zoneColW, rowH, "Sone", "1", 0, "L", true, 0, "")
		for _, slot := range t.TimeSlots {
			pdf.CellFormat(slotW, rowH, slot, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		writeRows := func(rows []Row) {
			pdf.SetFont("Helvetica", "", 8)
			for _, row := range rows {
				label := row.ZoneName
				if row.WholeFacility {
					label += " (hele lokalet)"
				}
				pdf.SetFillColor(255, 255, 255)
				pdf.CellFormat(zoneColW, rowH, tr(label), "1", 0, "L", false, 0, "")
				for si := 0; si < perDay; si++ {
					cell := row.Cell(di, si, perDay)
					fill := statusFill[cell.Status]
					pdf.SetFillColor(fill[0], fill[1], fill[2])
					pdf.CellFormat(slotW, rowH, tr(string(cell.Status)), "1", 0, "C", true, 0, "")
				}
				pdf.Ln(-1)
			}
		}

		writeRows(t.MainZones)
		if len(t.MainZones) > 0 && len(t.SubZones) > 0 {
			pdf.Ln(3)
		}
		writeRows(t.SubZones)
	}

	if len(t.Dates) == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render availability pdf failed: %w", err)
	}
	return buf.Bytes(), nil
}
