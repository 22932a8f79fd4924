package rotation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reugn/go-rotation/internal/assert"
)

func TestInvalidOptionError(t *testing.T) {
	err := invalidOptionError(OptionBackupDayOfWeek, 8, "out of range")
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatal("error must match ErrInvalidOption")
	}
	assert.Equal(t, err.Error(),
		fmt.Sprintf("%s: backup_day_of_week=8: out of range", ErrInvalidOption))
}

func TestInvalidDirectionError(t *testing.T) {
	message := "sideways"
	err := invalidDirectionError(message)
	if !errors.Is(err, ErrInvalidDirection) {
		t.Fatal("error must match ErrInvalidDirection")
	}
	assert.Equal(t, err.Error(), fmt.Sprintf("%s: %s", ErrInvalidDirection, message))
}

func TestParseDirection(t *testing.T) {
	direction, err := ParseDirection("past")
	assert.IsNil(t, err)
	assert.Equal(t, direction, Past)

	direction, err = ParseDirection(" Future ")
	assert.IsNil(t, err)
	assert.Equal(t, direction, Future)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Equal(t, Direction(3).String(), "unknown")
}
