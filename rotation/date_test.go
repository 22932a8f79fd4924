package rotation

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/reugn/go-rotation/internal/assert"
)

func date(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

func TestParseDate(t *testing.T) {
	expected := date(2010, time.November, 5)
	inputs := []any{
		expected,
		"2010-11-05",
		"2010.11.05",
		"2010/11/05",
		"2010-11-05T10:20:30Z",
		time.Date(2010, time.November, 5, 23, 59, 0, 0, time.UTC),
	}
	for _, input := range inputs {
		parsed, err := ParseDate(input)
		assert.IsNil(t, err)
		assert.Equal(t, parsed, expected)
	}
}

func TestParseDateInvalid(t *testing.T) {
	inputs := []any{
		"2010-11-5",
		"",
		"2010-1x-05",
		"2011-02-29",
		"2010-13-01",
		civil.Date{},
		20101105,
		nil,
	}
	for _, input := range inputs {
		_, err := ParseDate(input)
		assert.ErrorIs(t, err, ErrInvalidOption)

		var optionErr *InvalidOptionError
		if !errors.As(err, &optionErr) {
			t.Fatalf("expected InvalidOptionError for %v", input)
		}
		assert.Equal(t, optionErr.Field, "date")
	}
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, isoWeekday(date(2012, time.January, 2)), 1)
	assert.Equal(t, isoWeekday(date(2012, time.February, 29)), 3)
	assert.Equal(t, isoWeekday(date(2012, time.January, 1)), 7)
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, addMonths(date(2011, time.December, 28), 1), date(2012, time.January, 28))
	assert.Equal(t, addMonths(date(2012, time.January, 28), -1), date(2011, time.December, 28))
	assert.Equal(t, addMonths(date(2012, time.January, 31), 1), date(2012, time.February, 29))
	assert.Equal(t, addMonths(date(2011, time.March, 31), -1), date(2011, time.February, 28))
	assert.Equal(t, addMonths(date(2012, time.May, 15), -17), date(2010, time.December, 15))
	assert.Equal(t, addMonths(date(2012, time.May, 15), 20), date(2014, time.January, 15))
}

func TestAddYearsClipsLeapDay(t *testing.T) {
	leapDay := date(2012, time.February, 29)
	assert.Equal(t, addYears(leapDay, 1), date(2013, time.February, 28))
	assert.Equal(t, addYears(leapDay, -1), date(2011, time.February, 28))
	assert.Equal(t, addYears(leapDay, 4), date(2016, time.February, 29))
	assert.Equal(t, addYears(leapDay, -4), date(2008, time.February, 29))
}

func TestClippedDate(t *testing.T) {
	assert.Equal(t, clippedDate(2011, time.February, 29), date(2011, time.February, 28))
	assert.Equal(t, clippedDate(2011, time.April, 31), date(2011, time.April, 30))
	assert.Equal(t, clippedDate(2011, time.April, 12), date(2011, time.April, 12))
}

func TestYearBucketFromLeapDayAnchor(t *testing.T) {
	// a Feb 29 yearly point can only come from direct construction, since
	// normalization limits the day of month to 28
	policy := Policy{
		currentDate:   date(2012, time.March, 1),
		dayOfWeek:     1,
		dayOfMonth:    29,
		monthOfYear:   2,
		yearsToRetain: 5,
	}
	dates, err := Generate(policy, Past)
	assert.IsNil(t, err)
	assert.Equal(t, dates.Strings(Past), []string{
		"2012-03-01", "2012-02-29", "2011-02-28", "2010-02-28",
		"2009-02-28", "2008-02-29",
	})
}
