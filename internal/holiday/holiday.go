// Package holiday decides which calendar days cannot be booked.
package holiday

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Reason says why a day is not bookable.
type Reason string

const (
	ReasonPast        Reason = "past"
	ReasonWeekend     Reason = "weekend"
	ReasonHoliday     Reason = "holiday"
	ReasonMaintenance Reason = "maintenance"
)

// Unavailability is the verdict for a single day.
type Unavailability struct {
	IsUnavailable bool
	Reason        Reason // empty when available
	Details       string
}

// Calendar answers day-level availability questions. Dates are read by
// their own calendar fields; only "today" depends on the configured location.
type Calendar struct {
	loc         *time.Location
	maintenance map[string]string
	now         func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{
		loc:         loc,
		maintenance: make(map[string]string),
		now:         time.Now,
	}
}

// WithClock replaces the clock used to decide which days are past.
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	c.now = now
	return c
}

// AddMaintenance marks a day as closed for maintenance.
func (c *Calendar) AddMaintenance(date time.Time, details string) {
	if details == "" {
		details = "Stengt for vedlikehold"
	}
	c.maintenance[date.Format(dateLayout)] = details
}

// ParseMaintenanceDates reads a comma separated list of YYYY-MM-DD days.
func ParseMaintenanceDates(raw string) ([]time.Time, error) {
	var out []time.Time
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.Parse(dateLayout, part)
		if err != nil {
			return nil, fmt.Errorf("invalid maintenance date %q: %w", part, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDateUnavailable checks past, holiday, weekend and maintenance in that order.
func (c *Calendar) IsDateUnavailable(date time.Time) Unavailability {
	d := day(date)
	today := day(c.now().In(c.loc))

	if d.Before(today) {
		return Unavailability{IsUnavailable: true, Reason: ReasonPast, Details: "Datoen har passert"}
	}
	if ok, name := IsNorwegianHoliday(d); ok {
		return Unavailability{IsUnavailable: true, Reason: ReasonHoliday, Details: name}
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return Unavailability{IsUnavailable: true, Reason: ReasonWeekend, Details: "Helg"}
	}
	if details, ok := c.maintenance[d.Format(dateLayout)]; ok {
		return Unavailability{IsUnavailable: true, Reason: ReasonMaintenance, Details: details}
	}
	return Unavailability{}
}

// IsNorwegianHoliday reports whether date is a Norwegian public holiday and its name.
func IsNorwegianHoliday(date time.Time) (bool, string) {
	d := day(date)

	switch {
	case d.Month() == time.January && d.Day() == 1:
		return true, "Nyttårsdag"
	case d.Month() == time.May && d.Day() == 1:
		return true, "Arbeidernes dag"
	case d.Month() == time.May && d.Day() == 17:
		return true, "Grunnlovsdag"
	case d.Month() == time.December && d.Day() == 25:
		return true, "1. juledag"
	case d.Month() == time.December && d.Day() == 26:
		return true, "2. juledag"
	}

	easter := EasterSunday(d.Year())
	offset := int(d.Sub(easter).Hours() / 24)
	switch offset {
	case -3:
		return true, "Skjærtorsdag"
	case -2:
		return true, "Langfredag"
	case 0:
		return true, "1. påskedag"
	case 1:
		return true, "2. påskedag"
	case 39:
		return true, "Kristi himmelfartsdag"
	case 49:
		return true, "1. pinsedag"
	case 50:
		return true, "2. pinsedag"
	}
	return false, ""
}

// EasterSunday computes Western Easter with the anonymous Gregorian algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dayOfMonth := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}
