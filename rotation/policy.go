package rotation

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Policy is a normalized retention policy: the reference date, the fixed
// backup schedule and the number of backups to retain per bucket.
// A Policy is an immutable value; use With to derive an updated copy.
type Policy struct {
	currentDate civil.Date
	anchorDate  civil.Date
	autoCorrect bool

	dayOfWeek   int
	dayOfMonth  int
	monthOfYear int

	daysToRetain   int
	weeksToRetain  int
	monthsToRetain int
	yearsToRetain  int
}

// NewPolicy returns a new Policy built from the default options, with the
// current date taken from the clock, and then updated with opts.
// If clock is nil, SystemClock is used.
func NewPolicy(clock Clock, opts ...Option) (Policy, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	defaults := Policy{
		currentDate:    clock.Today(),
		autoCorrect:    DefaultAutoCorrect,
		dayOfWeek:      DefaultBackupDayOfWeek,
		dayOfMonth:     DefaultBackupDayOfMonth,
		monthOfYear:    DefaultBackupMonthOfYear,
		daysToRetain:   DefaultDaysToRetain,
		weeksToRetain:  DefaultWeeksToRetain,
		monthsToRetain: DefaultMonthsToRetain,
		yearsToRetain:  DefaultYearsToRetain,
	}
	return defaults.With(opts...)
}

// With returns a copy of the policy updated with opts. Either all of the
// options are applied and the result is a valid policy, or an error is
// returned; the receiver is never modified.
func (p Policy) With(opts ...Option) (Policy, error) {
	updated := p
	for _, opt := range opts {
		if err := opt(&updated); err != nil {
			return p, err
		}
	}
	if err := updated.normalize(); err != nil {
		return p, err
	}
	return updated, nil
}

// normalize resolves the backup schedule and validates every field.
func (p *Policy) normalize() error {
	if p.currentDate == (civil.Date{}) {
		return invalidOptionError(OptionCurrentDate, p.currentDate, "current date is required")
	}

	field := OptionBackupDayOfMonth
	if p.HasAnchorDate() {
		p.dayOfWeek = isoWeekday(p.anchorDate)
		p.dayOfMonth = p.anchorDate.Day
		p.monthOfYear = int(p.anchorDate.Month)
		field = OptionAnchorDate
	} else if err := p.validateSchedule(); err != nil {
		return err
	}

	if p.dayOfMonth > maxBackupDayOfMonth {
		if !p.autoCorrect {
			return invalidOptionError(field, p.dayOfMonth,
				fmt.Sprintf("day of the month must not be greater than %d", maxBackupDayOfMonth))
		}
		p.dayOfMonth = 1
		p.monthOfYear = nextMonth(p.monthOfYear)
	}

	return p.validateRetention()
}

func (p *Policy) validateSchedule() error {
	if p.dayOfWeek < 1 || p.dayOfWeek > daysInWeek {
		return invalidOptionError(OptionBackupDayOfWeek, p.dayOfWeek,
			"must be an integer between 1-7 (Monday-Sunday)")
	}
	if p.dayOfMonth < 1 || p.dayOfMonth > 31 {
		return invalidOptionError(OptionBackupDayOfMonth, p.dayOfMonth,
			"must be an integer between 1-31")
	}
	if p.monthOfYear < 1 || p.monthOfYear > 12 {
		return invalidOptionError(OptionBackupMonthOfYear, p.monthOfYear,
			"must be an integer between 1-12")
	}
	return nil
}

func (p *Policy) validateRetention() error {
	counts := []struct {
		field string
		value int
	}{
		{OptionDaysToRetain, p.daysToRetain},
		{OptionWeeksToRetain, p.weeksToRetain},
		{OptionMonthsToRetain, p.monthsToRetain},
		{OptionYearsToRetain, p.yearsToRetain},
	}
	for _, count := range counts {
		if count.value < 0 {
			return invalidOptionError(count.field, count.value, "must not be negative")
		}
	}
	return nil
}

func nextMonth(month int) int {
	if month == int(time.December) {
		return int(time.January)
	}
	return month + 1
}

// CurrentDate returns the reference date of the policy.
func (p Policy) CurrentDate() civil.Date {
	return p.currentDate
}

// AnchorDate returns the anchor date and whether it is set.
func (p Policy) AnchorDate() (civil.Date, bool) {
	return p.anchorDate, p.HasAnchorDate()
}

// HasAnchorDate reports whether the schedule is derived from an anchor date.
func (p Policy) HasAnchorDate() bool {
	return p.anchorDate != (civil.Date{})
}

// AutoCorrect reports whether out-of-range backup days are corrected.
func (p Policy) AutoCorrect() bool {
	return p.autoCorrect
}

// BackupDayOfWeek returns the ISO weekday of the weekly backups.
func (p Policy) BackupDayOfWeek() int {
	return p.dayOfWeek
}

// BackupDayOfMonth returns the day of the monthly and yearly backups,
// always in the range 1-28.
func (p Policy) BackupDayOfMonth() int {
	return p.dayOfMonth
}

// BackupMonthOfYear returns the month of the yearly backups.
func (p Policy) BackupMonthOfYear() int {
	return p.monthOfYear
}

// DaysToRetain returns the number of daily backups to keep.
func (p Policy) DaysToRetain() int {
	return p.daysToRetain
}

// WeeksToRetain returns the number of weekly backups to keep.
func (p Policy) WeeksToRetain() int {
	return p.weeksToRetain
}

// MonthsToRetain returns the number of monthly backups to keep.
func (p Policy) MonthsToRetain() int {
	return p.monthsToRetain
}

// YearsToRetain returns the number of yearly backups to keep.
func (p Policy) YearsToRetain() int {
	return p.yearsToRetain
}

// String returns a compact representation of the policy.
func (p Policy) String() string {
	return fmt.Sprintf(
		"Policy(current=%s, schedule=%d/%d/%d, retain=%dd/%dw/%dm/%dy)",
		p.currentDate, p.dayOfWeek, p.dayOfMonth, p.monthOfYear,
		p.daysToRetain, p.weeksToRetain, p.monthsToRetain, p.yearsToRetain,
	)
}
