package main

import "github.com/reugn/go-rotation/rotation"

// calendarClock pins one-shot commands to the current date of the
// calendar policy, so that --set current_date=... evaluates a past or
// future day.
func calendarClock(calendar *rotation.Calendar) rotation.Clock {
	return rotation.FixedClock(calendar.Policy().CurrentDate())
}
