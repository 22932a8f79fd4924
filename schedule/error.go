package schedule

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrIllegalArgument = errors.New("illegal argument")
	ErrCronParse       = errors.New("parse cron expression")
	ErrTriggerExpired  = errors.New("trigger has expired")
	ErrQueueEmpty      = errors.New("queue is empty")
	ErrJobRunning      = errors.New("job is running")
)

// illegalArgumentError returns an illegal argument error with a custom
// error message, which unwraps to ErrIllegalArgument.
func illegalArgumentError(message string) error {
	return fmt.Errorf("%w: %s", ErrIllegalArgument, message)
}

// cronParseError returns a cron parse error with a custom error message,
// which unwraps to ErrCronParse.
func cronParseError(message string) error {
	return fmt.Errorf("%w: %s", ErrCronParse, message)
}

// triggerExpiredError returns a trigger expired error with a custom error
// message, which unwraps to ErrTriggerExpired.
func triggerExpiredError(message string) error {
	return fmt.Errorf("%w: %s", ErrTriggerExpired, message)
}
