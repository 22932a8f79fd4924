package rotation

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock provides the current calendar date.
type Clock interface {
	Today() civil.Date
}

// SystemClock implements the Clock interface using the local wall clock.
type SystemClock struct{}

var _ Clock = SystemClock{}

// Today returns the current local date.
func (SystemClock) Today() civil.Date {
	return civil.DateOf(time.Now())
}

// FixedClock implements the Clock interface, always returning the same date.
type FixedClock civil.Date

var _ Clock = FixedClock{}

// Today returns the fixed date.
func (c FixedClock) Today() civil.Date {
	return civil.Date(c)
}
