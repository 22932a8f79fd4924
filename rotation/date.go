package rotation

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

const (
	daysInWeek = 7

	// maxBackupDayOfMonth is the greatest day number present in every month.
	maxBackupDayOfMonth = 28

	// minDateStringLength is the length of the YYYY-MM-DD form.
	minDateStringLength = 10
)

// ParseDate converts v into a calendar date.
// Supported inputs are civil.Date, time.Time (the time of day and location
// are dropped) and strings in the YYYY-MM-DD form. The separators are not
// checked, so YYYY.MM.DD and YYYY/MM/DD are accepted as well; trailing
// characters after the tenth are ignored.
func ParseDate(v any) (civil.Date, error) {
	return parseDate("date", v)
}

func parseDate(field string, v any) (civil.Date, error) {
	switch value := v.(type) {
	case civil.Date:
		if !value.IsValid() {
			return civil.Date{}, invalidOptionError(field, value, "not a valid calendar date")
		}
		return value, nil
	case time.Time:
		return civil.DateOf(value), nil
	case string:
		return parseDateString(field, value)
	default:
		return civil.Date{}, invalidOptionError(field, v, "unsupported date type")
	}
}

func parseDateString(field, s string) (civil.Date, error) {
	if len(s) < minDateStringLength {
		return civil.Date{}, invalidOptionError(field, s,
			"string date must be in ISO 8601 format 'YYYY-MM-DD'")
	}

	year, errYear := strconv.Atoi(s[0:4])
	month, errMonth := strconv.Atoi(s[5:7])
	day, errDay := strconv.Atoi(s[8:10])
	if errYear != nil || errMonth != nil || errDay != nil {
		return civil.Date{}, invalidOptionError(field, s,
			"string date must be in ISO 8601 format 'YYYY-MM-DD'")
	}

	date := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !date.IsValid() {
		return civil.Date{}, invalidOptionError(field, s, "not a valid calendar date")
	}
	return date, nil
}

// isoWeekday returns the ISO 8601 day of the week, Monday=1 through Sunday=7.
func isoWeekday(d civil.Date) int {
	weekday := d.In(time.UTC).Weekday()
	if weekday == time.Sunday {
		return daysInWeek
	}
	return int(weekday)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clippedDate returns the date for the given fields, moving the day back to
// the last day of the month when the month is shorter (Feb 29 -> Feb 28).
func clippedDate(year int, month time.Month, day int) civil.Date {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// addMonths moves d by n calendar months keeping the day of the month,
// clipped to the length of the target month.
func addMonths(d civil.Date, n int) civil.Date {
	total := d.Year*12 + int(d.Month) - 1 + n
	year, month := total/12, total%12
	if month < 0 {
		year--
		month += 12
	}
	return clippedDate(year, time.Month(month+1), d.Day)
}

// addYears moves d by n calendar years keeping month and day, clipped to
// the length of the target month.
func addYears(d civil.Date, n int) civil.Date {
	return clippedDate(d.Year+n, d.Month, d.Day)
}

// compareDates returns -1, 0 or +1 depending on whether a is before,
// equal to or after b.
func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
