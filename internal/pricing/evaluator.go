package pricing

import (
	"sort"
	"time"
)

// EvalRequest is the booking being priced.
type EvalRequest struct {
	ZoneID     string
	Start      time.Time
	End        time.Time
	UserGroups []string
}

// Evaluate prices req at hourlyRate and runs the rule stack over it.
// Rules are evaluated by descending priority; an applied exclusive rule stops
// the evaluation. Day-of-week, time-of-day and validity checks use loc.
// The final price never drops below zero.
func Evaluate(rules []*PricingRule, hourlyRate float64, req EvalRequest, loc *time.Location) Quote {
	if loc == nil {
		loc = time.UTC
	}
	hours := req.End.Sub(req.Start).Hours()
	base := hourlyRate * hours

	ordered := make([]*PricingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	q := Quote{
		HourlyRate:    hourlyRate,
		DurationHours: hours,
		BasePrice:     base,
		FinalPrice:    base,
		AppliedRules:  []AppliedRule{},
	}

	for _, rule := range ordered {
		if !rule.IsActive || !Applies(rule, req, loc) {
			continue
		}

		before := q.FinalPrice
		switch rule.DiscountType {
		case DiscountPercentage:
			q.FinalPrice -= q.FinalPrice * (rule.DiscountValue / 100)
		case DiscountFixed:
			q.FinalPrice -= rule.DiscountValue
		case DiscountOverride:
			q.FinalPrice = rule.DiscountValue * hours
		default:
			continue
		}
		q.AppliedRules = append(q.AppliedRules, AppliedRule{Rule: rule, PriceBefore: before, PriceAfter: q.FinalPrice})

		if rule.IsExclusive {
			break
		}
	}

	if q.FinalPrice < 0 {
		q.FinalPrice = 0
	}
	return q
}

// Applies reports whether every condition of rule holds for req.
// Only the request's start time is checked against the rule's time window.
func Applies(rule *PricingRule, req EvalRequest, loc *time.Location) bool {
	if rule.ZoneID != nil && *rule.ZoneID != req.ZoneID {
		return false
	}

	start := req.Start.In(loc)

	if len(rule.DaysOfWeek) > 0 && !containsInt(rule.DaysOfWeek, int(start.Weekday())) {
		return false
	}

	if rule.StartTime != nil || rule.EndTime != nil {
		from, to := 0, 24*60-1
		var err error
		if rule.StartTime != nil {
			if from, err = minuteOfDay(*rule.StartTime); err != nil {
				return false
			}
		}
		if rule.EndTime != nil {
			if to, err = minuteOfDay(*rule.EndTime); err != nil {
				return false
			}
		}
		m := start.Hour()*60 + start.Minute()
		if m < from || m > to {
			return false
		}
	}

	startDay := dateOf(start)
	if rule.ValidFrom != nil && startDay.Before(dateOf(*rule.ValidFrom)) {
		return false
	}
	if rule.ValidTo != nil && startDay.After(dateOf(*rule.ValidTo)) {
		return false
	}

	if len(rule.UserGroups) > 0 && len(req.UserGroups) > 0 && !intersects(rule.UserGroups, req.UserGroups) {
		return false
	}

	return true
}

func minuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, err
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// dateOf drops the clock, keeping the calendar day as seen in t's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
