package rotation

import (
	"time"

	"cloud.google.com/go/civil"
)

// Generate returns the set of dates to retain under the policy when
// walking in the given direction. The current date is always included.
//
// Every bucket starts from the schedule-matching date nearest to the
// current date, strictly before it (Past) or after it (Future), and then
// steps by its own calendar interval. Dates produced by more than one
// bucket collapse into a single entry.
func Generate(policy Policy, direction Direction) (DateSet, error) {
	if err := direction.validate(); err != nil {
		return nil, err
	}

	current := policy.currentDate
	dates := make(DateSet, 1+policy.daysToRetain+policy.weeksToRetain+
		policy.monthsToRetain+policy.yearsToRetain)
	dates.add(current)

	sign := direction.sign()
	buckets := []struct {
		count int
		first civil.Date
		step  func(civil.Date, int) civil.Date
	}{
		{policy.daysToRetain, current.AddDays(sign), civil.Date.AddDays},
		{policy.weeksToRetain, firstWeek(policy, direction), addWeeks},
		{policy.monthsToRetain, firstMonth(policy, direction), addMonths},
		{policy.yearsToRetain, firstYear(policy, direction), addYears},
	}
	for _, bucket := range buckets {
		for i := 0; i < bucket.count; i++ {
			dates.add(bucket.step(bucket.first, sign*i))
		}
	}

	return dates, nil
}

// Dates returns the set of dates to retain under the policy.
// It is a shorthand for Generate(p, direction).
func (p Policy) Dates(direction Direction) (DateSet, error) {
	return Generate(p, direction)
}

func addWeeks(d civil.Date, n int) civil.Date {
	return d.AddDays(n * daysInWeek)
}

// firstWeek returns the nearest date with the backup day of week, never
// the current date itself.
func firstWeek(policy Policy, direction Direction) civil.Date {
	current := policy.currentDate
	weekday := isoWeekday(current)
	if direction == Future {
		days := policy.dayOfWeek - weekday
		if days <= 0 {
			days += daysInWeek
		}
		return current.AddDays(days)
	}
	days := weekday - policy.dayOfWeek
	if days <= 0 {
		days += daysInWeek
	}
	return current.AddDays(-days)
}

// firstMonth returns the nearest date with the backup day of month.
func firstMonth(policy Policy, direction Direction) civil.Date {
	current := policy.currentDate
	candidate := clippedDate(current.Year, current.Month, policy.dayOfMonth)
	return nearest(candidate, current, direction, addMonths)
}

// firstYear returns the nearest date with the backup month and day.
func firstYear(policy Policy, direction Direction) civil.Date {
	current := policy.currentDate
	candidate := clippedDate(current.Year, time.Month(policy.monthOfYear), policy.dayOfMonth)
	return nearest(candidate, current, direction, addYears)
}

// nearest moves the candidate one step away from the current date when it
// is not strictly on the requested side of it.
func nearest(candidate, current civil.Date, direction Direction,
	step func(civil.Date, int) civil.Date) civil.Date {
	cmp := compareDates(candidate, current)
	if direction == Past && cmp >= 0 {
		return step(candidate, -1)
	}
	if direction == Future && cmp <= 0 {
		return step(candidate, 1)
	}
	return candidate
}
