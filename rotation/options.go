package rotation

import (
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// Option names, as used by ParseOption and reported in InvalidOptionError.
const (
	OptionCurrentDate       = "current_date"
	OptionAnchorDate        = "anchor_date"
	OptionAutoCorrect       = "auto_correct_backup_dates"
	OptionBackupDayOfWeek   = "backup_day_of_week"
	OptionBackupDayOfMonth  = "backup_day_of_month"
	OptionBackupMonthOfYear = "backup_month_of_year"
	OptionDaysToRetain      = "days_to_retain"
	OptionWeeksToRetain     = "weeks_to_retain"
	OptionMonthsToRetain    = "months_to_retain"
	OptionYearsToRetain     = "years_to_retain"
)

// Default option values.
const (
	DefaultAutoCorrect       = true
	DefaultBackupDayOfWeek   = 1
	DefaultBackupDayOfMonth  = 1
	DefaultBackupMonthOfYear = 1
	DefaultDaysToRetain      = 6
	DefaultWeeksToRetain     = 3
	DefaultMonthsToRetain    = 6
	DefaultYearsToRetain     = 10
)

// An Option updates a single Policy field. Options are applied to a copy
// of the policy, which is normalized and validated as a whole afterwards.
type Option func(*Policy) error

// WithCurrentDate sets the reference date the retention dates are
// computed from. See ParseDate for the accepted value types.
func WithCurrentDate(v any) Option {
	return func(p *Policy) error {
		date, err := parseDate(OptionCurrentDate, v)
		if err != nil {
			return err
		}
		p.currentDate = date
		return nil
	}
}

// WithAnchorDate sets the date the backup schedule is derived from.
// While an anchor date is set, it takes precedence over the explicit
// backup day and month options.
func WithAnchorDate(v any) Option {
	return func(p *Policy) error {
		date, err := parseDate(OptionAnchorDate, v)
		if err != nil {
			return err
		}
		p.anchorDate = date
		return nil
	}
}

// WithoutAnchorDate clears the anchor date, so that the explicit backup
// day and month options are used again.
func WithoutAnchorDate() Option {
	return func(p *Policy) error {
		p.anchorDate = civil.Date{}
		return nil
	}
}

// WithAutoCorrect controls whether a backup day of month greater than 28
// is moved to the first day of the following month instead of being
// rejected.
func WithAutoCorrect(enabled bool) Option {
	return func(p *Policy) error {
		p.autoCorrect = enabled
		return nil
	}
}

// WithBackupDayOfWeek sets the ISO weekday (Monday=1 to Sunday=7) of the
// weekly backups.
func WithBackupDayOfWeek(day int) Option {
	return func(p *Policy) error {
		p.dayOfWeek = day
		return nil
	}
}

// WithBackupDayOfMonth sets the day of the monthly and yearly backups.
func WithBackupDayOfMonth(day int) Option {
	return func(p *Policy) error {
		p.dayOfMonth = day
		return nil
	}
}

// WithBackupMonthOfYear sets the month of the yearly backups.
func WithBackupMonthOfYear(month int) Option {
	return func(p *Policy) error {
		p.monthOfYear = month
		return nil
	}
}

// WithDaysToRetain sets the number of daily backups to keep.
func WithDaysToRetain(n int) Option {
	return func(p *Policy) error {
		p.daysToRetain = n
		return nil
	}
}

// WithWeeksToRetain sets the number of weekly backups to keep.
func WithWeeksToRetain(n int) Option {
	return func(p *Policy) error {
		p.weeksToRetain = n
		return nil
	}
}

// WithMonthsToRetain sets the number of monthly backups to keep.
func WithMonthsToRetain(n int) Option {
	return func(p *Policy) error {
		p.monthsToRetain = n
		return nil
	}
}

// WithYearsToRetain sets the number of yearly backups to keep.
func WithYearsToRetain(n int) Option {
	return func(p *Policy) error {
		p.yearsToRetain = n
		return nil
	}
}

// ParseOption returns the Option for the given option name, coercing the
// string value to the option type. An empty anchor_date value clears the
// anchor date.
func ParseOption(name, value string) (Option, error) {
	value = strings.TrimSpace(value)
	switch name {
	case OptionCurrentDate:
		return WithCurrentDate(value), nil
	case OptionAnchorDate:
		if value == "" {
			return WithoutAnchorDate(), nil
		}
		return WithAnchorDate(value), nil
	case OptionAutoCorrect:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return nil, invalidOptionError(name, value, "must be a boolean")
		}
		return WithAutoCorrect(enabled), nil
	}

	option, ok := intOptions[name]
	if !ok {
		return nil, invalidOptionError(name, value, "unknown option")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, invalidOptionError(name, value, "must be an integer")
	}
	return option(n), nil
}

var intOptions = map[string]func(int) Option{
	OptionBackupDayOfWeek:   WithBackupDayOfWeek,
	OptionBackupDayOfMonth:  WithBackupDayOfMonth,
	OptionBackupMonthOfYear: WithBackupMonthOfYear,
	OptionDaysToRetain:      WithDaysToRetain,
	OptionWeeksToRetain:     WithWeeksToRetain,
	OptionMonthsToRetain:    WithMonthsToRetain,
	OptionYearsToRetain:     WithYearsToRetain,
}
