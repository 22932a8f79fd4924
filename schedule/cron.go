package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorhill/cronexpr"
)

// CronTrigger implements the [Trigger] interface using a cron expression.
//
// Expressions with 5 fields (minute to day of week), 6 fields (with a
// trailing year) and 7 fields (with a leading second) are accepted, as
// well as the @yearly, @monthly, @weekly, @daily and @hourly macros.
type CronTrigger struct {
	expression string
	expr       *cronexpr.Expression
	location   *time.Location
}

var _ Trigger = (*CronTrigger)(nil)

// NewCronTrigger returns a new CronTrigger evaluated in the local time zone.
func NewCronTrigger(expression string) (*CronTrigger, error) {
	return NewCronTriggerWithLoc(expression, time.Local)
}

// NewCronTriggerWithLoc returns a new CronTrigger evaluated in the given
// time zone.
func NewCronTriggerWithLoc(expression string, location *time.Location) (*CronTrigger, error) {
	if location == nil {
		return nil, illegalArgumentError("location is nil")
	}
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, illegalArgumentError("cron expression is empty")
	}
	expr, err := cronexpr.Parse(expression)
	if err != nil {
		return nil, cronParseError(err.Error())
	}
	return &CronTrigger{
		expression: expression,
		expr:       expr,
		location:   location,
	}, nil
}

// NextFireTime returns the next time at which the CronTrigger is scheduled
// to fire. An expression that never fires again yields ErrTriggerExpired.
func (ct *CronTrigger) NextFireTime(prev int64) (int64, error) {
	next := ct.expr.Next(time.Unix(0, prev).In(ct.location))
	if next.IsZero() {
		return 0, triggerExpiredError(ct.expression)
	}
	return next.UnixNano(), nil
}

// Description returns the description of the trigger.
func (ct *CronTrigger) Description() string {
	return fmt.Sprintf("CronTrigger::%s::%s", ct.expression, ct.location)
}
