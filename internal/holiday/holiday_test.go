package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEasterSunday(t *testing.T) {
	known := map[int]time.Time{
		2024: date(2024, 3, 31),
		2025: date(2025, 4, 20),
		2026: date(2026, 4, 5),
		2027: date(2027, 3, 28),
		2038: date(2038, 4, 25),
	}
	for year, want := range known {
		assert.Equal(t, want, EasterSunday(year), "year %d", year)
	}
}

func TestIsNorwegianHoliday(t *testing.T) {
	tests := []struct {
		day  time.Time
		want string
	}{
		{day: date(2025, 1, 1), want: "Nyttårsdag"},
		{day: date(2025, 4, 17), want: "Skjærtorsdag"},
		{day: date(2025, 4, 18), want: "Langfredag"},
		{day: date(2025, 4, 20), want: "1. påskedag"},
		{day: date(2025, 4, 21), want: "2. påskedag"},
		{day: date(2025, 5, 1), want: "Arbeidernes dag"},
		{day: date(2025, 5, 17), want: "Grunnlovsdag"},
		{day: date(2025, 5, 29), want: "Kristi himmelfartsdag"},
		{day: date(2025, 6, 8), want: "1. pinsedag"},
		{day: date(2025, 6, 9), want: "2. pinsedag"},
		{day: date(2025, 12, 25), want: "1. juledag"},
		{day: date(2025, 12, 26), want: "2. juledag"},
		{day: date(2025, 5, 26), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.day.Format(dateLayout), func(t *testing.T) {
			ok, name := IsNorwegianHoliday(tt.day)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestIsDateUnavailable(t *testing.T) {
	now := time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC)
	cal := NewCalendar(time.UTC).WithClock(func() time.Time { return now })
	cal.AddMaintenance(date(2025, 5, 28), "")

	tests := []struct {
		name   string
		day    time.Time
		reason Reason
	}{
		{name: "yesterday", day: date(2025, 5, 19), reason: ReasonPast},
		{name: "today", day: date(2025, 5, 20), reason: ""},
		{name: "saturday", day: date(2025, 5, 24), reason: ReasonWeekend},
		{name: "holiday on weekday", day: date(2025, 5, 29), reason: ReasonHoliday},
		{name: "holiday on saturday", day: date(2025, 5, 17), reason: ReasonPast},
		{name: "maintenance", day: date(2025, 5, 28), reason: ReasonMaintenance},
		{name: "plain weekday", day: date(2025, 5, 27), reason: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.IsDateUnavailable(tt.day)
			assert.Equal(t, tt.reason != "", got.IsUnavailable)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestHolidayWinsOverWeekend(t *testing.T) {
	cal := NewCalendar(time.UTC).WithClock(func() time.Time { return date(2026, 1, 1) })

	got := cal.IsDateUnavailable(date(2026, 5, 17))
	assert.Equal(t, ReasonHoliday, got.Reason)
	assert.Equal(t, "Grunnlovsdag", got.Details)
}

func TestPastUsesCalendarLocation(t *testing.T) {
	// 23:30 UTC on the 19th is already the 20th at UTC+2.
	now := time.Date(2025, 5, 19, 23, 30, 0, 0, time.UTC)
	cal := NewCalendar(time.FixedZone("CEST", 2*60*60)).WithClock(func() time.Time { return now })

	assert.Equal(t, ReasonPast, cal.IsDateUnavailable(date(2025, 5, 19)).Reason)
}

func TestParseMaintenanceDates(t *testing.T) {
	got, err := ParseMaintenanceDates(" 2025-07-01, ,2025-07-02")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2025, 7, 1), date(2025, 7, 2)}, got)

	empty, err := ParseMaintenanceDates("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseMaintenanceDates("01.07.2025")
	assert.Error(t, err)
}
