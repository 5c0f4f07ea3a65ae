package availability

import (
	"fmt"
	"time"
)

// DefaultSlotLength is the block size used when no time slots are requested.
const DefaultSlotLength = 2 * time.Hour

// SlotsBetween cuts the opening hours [open, closing) into labels of length step.
// A trailing remainder shorter than step becomes its own, shorter slot.
func SlotsBetween(open, closing string, step time.Duration) ([]string, error) {
	from, err := clock(open)
	if err != nil {
		return nil, err
	}
	to, err := clock(closing)
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		step = DefaultSlotLength
	}

	var out []string
	for cur := from; cur < to; cur += step {
		end := cur + step
		if end > to {
			end = to
		}
		out = append(out, fmt.Sprintf("%s-%s", hhmm(cur), hhmm(end)))
	}
	return out, nil
}

func clock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, fmt.Errorf("invalid clock %q: %w", s, err)
		}
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func hhmm(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
