package zone

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// MatchMode selects how two time slot labels are compared.
type MatchMode string

const (
	// MatchLabel treats slots as opaque labels: only identical labels collide.
	// Overlapping wall-clock slots with different labels are not detected.
	MatchLabel MatchMode = "label"
	// MatchOverlap parses "HH:MM-HH:MM" labels and compares intervals.
	// Labels that do not parse fall back to label equality.
	MatchOverlap MatchMode = "overlap"
)

// ParseMatchMode returns the MatchMode for s, or an error for unknown values.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchLabel:
		return MatchLabel, nil
	case MatchOverlap:
		return MatchOverlap, nil
	}
	return "", fmt.Errorf("unknown slot match mode %q", s)
}

// SlotRange is a parsed time slot expressed in minutes from midnight.
type SlotRange struct {
	StartMinute int
	EndMinute   int
}

// Duration returns the length of the slot.
func (r SlotRange) Duration() time.Duration {
	return time.Duration(r.EndMinute-r.StartMinute) * time.Minute
}

// On anchors the slot to the calendar day of date in loc.
func (r SlotRange) On(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return day.Add(time.Duration(r.StartMinute) * time.Minute), day.Add(time.Duration(r.EndMinute) * time.Minute)
}

// ParseSlot parses labels like "14:00-16:00". The end must be after the start.
func ParseSlot(label string) (SlotRange, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return SlotRange{}, fmt.Errorf("time slot %q is not of the form HH:MM-HH:MM", label)
	}
	start, err := parseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return SlotRange{}, err
	}
	end, err := parseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return SlotRange{}, err
	}
	if end <= start {
		return SlotRange{}, fmt.Errorf("time slot %q ends before it starts", label)
	}
	return SlotRange{StartMinute: start, EndMinute: end}, nil
}

// FormatSlot builds the label for the wall-clock interval [start, end).
func FormatSlot(start, end time.Time) string {
	return start.Format("15:04") + "-" + end.Format("15:04")
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// slotsCollide reports whether two slot labels refer to the same bookable period.
func slotsCollide(mode MatchMode, a, b string) bool {
	if a == b {
		return true
	}
	if mode != MatchOverlap {
		return false
	}
	ra, errA := ParseSlot(a)
	rb, errB := ParseSlot(b)
	if errA != nil || errB != nil {
		return false
	}
	return ra.StartMinute < rb.EndMinute && rb.StartMinute < ra.EndMinute
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}
