package assert

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// allFields makes cmp look into unexported fields of value types.
var allFields = cmp.Exporter(func(reflect.Type) bool { return true })

// Equal fails the test if a and b differ, printing the diff.
func Equal[T any](t *testing.T, a T, b T) {
	t.Helper()
	if diff := cmp.Diff(a, b, allFields); diff != "" {
		t.Fatalf("mismatch (-got, +want):\n%s", diff)
	}
}

// NotEqual fails the test if a and b are equal.
func NotEqual[T any](t *testing.T, a T, b T) {
	t.Helper()
	if cmp.Equal(a, b, allFields) {
		t.Fatalf("%v == %v", a, b)
	}
}

// ErrorIs fails the test if err does not match target.
func ErrorIs(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error %v does not match %v", err, target)
	}
}

// IsNil fails the test if err is not nil.
func IsNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
