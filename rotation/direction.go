package rotation

import "strings"

// Direction determines whether the retention buckets walk backward or
// forward in time from the current date.
type Direction int8

const (
	// Past walks backward from the current date.
	Past Direction = iota

	// Future walks forward from the current date.
	Future
)

// ParseDirection returns the Direction for the given name,
// "past" or "future" (case-insensitive).
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "past":
		return Past, nil
	case "future":
		return Future, nil
	default:
		return Past, invalidDirectionError(name)
	}
}

// String returns the name of the direction.
func (d Direction) String() string {
	switch d {
	case Past:
		return "past"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

func (d Direction) validate() error {
	if d != Past && d != Future {
		return invalidDirectionError(d.String())
	}
	return nil
}

// sign returns -1 for Past and +1 for Future.
func (d Direction) sign() int {
	if d == Future {
		return 1
	}
	return -1
}
