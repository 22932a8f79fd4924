package schedule

import (
	"fmt"
	"sync"
	"time"
)

// Trigger represents the mechanism by which Jobs are scheduled.
type Trigger interface {
	// NextFireTime returns the next time at which the Trigger is scheduled
	// to fire, in Unix nanoseconds.
	NextFireTime(prev int64) (int64, error)

	// Description returns the description of the Trigger.
	Description() string
}

// SimpleTrigger fires a Job repeatedly at a fixed interval.
type SimpleTrigger struct {
	Interval time.Duration
}

var _ Trigger = (*SimpleTrigger)(nil)

// NewSimpleTrigger returns a new SimpleTrigger using the given interval.
func NewSimpleTrigger(interval time.Duration) *SimpleTrigger {
	return &SimpleTrigger{
		Interval: interval,
	}
}

// NextFireTime returns the next time at which the SimpleTrigger is scheduled
// to fire.
func (st *SimpleTrigger) NextFireTime(prev int64) (int64, error) {
	if st.Interval <= 0 {
		return 0, illegalArgumentError("interval must be positive")
	}
	return prev + st.Interval.Nanoseconds(), nil
}

// Description returns the description of the trigger.
func (st *SimpleTrigger) Description() string {
	return fmt.Sprintf("SimpleTrigger::%s", st.Interval)
}

// RunOnceTrigger fires a Job once after the given delay.
type RunOnceTrigger struct {
	mtx     sync.Mutex
	Delay   time.Duration
	expired bool
}

var _ Trigger = (*RunOnceTrigger)(nil)

// NewRunOnceTrigger returns a new RunOnceTrigger with the given delay.
func NewRunOnceTrigger(delay time.Duration) *RunOnceTrigger {
	return &RunOnceTrigger{
		Delay: delay,
	}
}

// NextFireTime returns the next time at which the RunOnceTrigger is scheduled
// to fire. Once fired, it returns ErrTriggerExpired.
func (ot *RunOnceTrigger) NextFireTime(prev int64) (int64, error) {
	ot.mtx.Lock()
	defer ot.mtx.Unlock()

	if ot.expired {
		return 0, triggerExpiredError("run once trigger")
	}
	ot.expired = true
	return prev + ot.Delay.Nanoseconds(), nil
}

// Description returns the description of the trigger.
func (ot *RunOnceTrigger) Description() string {
	ot.mtx.Lock()
	defer ot.mtx.Unlock()

	status := "valid"
	if ot.expired {
		status = "expired"
	}
	return fmt.Sprintf("RunOnceTrigger::%s::%s", ot.Delay, status)
}
