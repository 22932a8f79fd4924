package rotation

import (
	"sync"
)

// Calendar holds the active retention Policy and answers which dates must
// be retained. It is safe for concurrent use; every update replaces the
// policy atomically.
type Calendar struct {
	mtx    sync.RWMutex
	clock  Clock
	policy Policy
}

// NewCalendar returns a new Calendar using the system clock for the
// default current date.
func NewCalendar(opts ...Option) (*Calendar, error) {
	return NewCalendarWithClock(SystemClock{}, opts...)
}

// NewCalendarWithClock returns a new Calendar using the given clock for
// the default current date.
func NewCalendarWithClock(clock Clock, opts ...Option) (*Calendar, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	policy, err := NewPolicy(clock, opts...)
	if err != nil {
		return nil, err
	}
	return &Calendar{
		clock:  clock,
		policy: policy,
	}, nil
}

// SetOptions merges opts into the active policy. When any option is
// invalid an error is returned and the active policy is left unchanged.
func (c *Calendar) SetOptions(opts ...Option) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	policy, err := c.policy.With(opts...)
	if err != nil {
		return err
	}
	c.policy = policy
	return nil
}

// ReplaceOptions replaces the active policy with one built from the
// defaults and opts. When any option is invalid an error is returned and
// the active policy is left unchanged.
func (c *Calendar) ReplaceOptions(opts ...Option) error {
	policy, err := NewPolicy(c.clock, opts...)
	if err != nil {
		return err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.policy = policy
	return nil
}

// Reset restores the default options, taking the current date from the
// calendar clock.
func (c *Calendar) Reset() {
	policy, _ := NewPolicy(c.clock) // the defaults are always valid

	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.policy = policy
}

// Options returns a copy of the active policy.
func (c *Calendar) Options() Policy {
	return c.Policy()
}

// Policy returns a copy of the active policy.
func (c *Calendar) Policy() Policy {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.policy
}

// Dates returns the set of dates to retain under the active policy.
func (c *Calendar) Dates(direction Direction) (DateSet, error) {
	return Generate(c.Policy(), direction)
}

// DatesAsStrings returns the dates to retain as ISO 8601 strings, the
// current date first. See DateSet.Strings for the ordering.
func (c *Calendar) DatesAsStrings(direction Direction) ([]string, error) {
	dates, err := c.Dates(direction)
	if err != nil {
		return nil, err
	}
	return dates.Strings(direction), nil
}

// Today returns the current date of the active policy as an ISO 8601 string.
func (c *Calendar) Today() string {
	return c.Policy().CurrentDate().String()
}
