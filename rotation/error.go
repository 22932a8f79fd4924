package rotation

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidOption    = errors.New("invalid option")
	ErrInvalidDirection = errors.New("invalid direction")
)

// InvalidOptionError is returned when an option value fails validation.
// It unwraps to ErrInvalidOption.
type InvalidOptionError struct {
	Field  string
	Value  any
	Reason string
}

var _ error = (*InvalidOptionError)(nil)

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrInvalidOption, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidOption.
func (e *InvalidOptionError) Unwrap() error {
	return ErrInvalidOption
}

func invalidOptionError(field string, value any, reason string) error {
	return &InvalidOptionError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// invalidDirectionError returns an invalid direction error with a custom
// error message, which unwraps to ErrInvalidDirection.
func invalidDirectionError(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDirection, message)
}
