package rotation

import (
	"sort"

	"cloud.google.com/go/civil"
)

// DateSet maps the ISO 8601 representation of each retained date to the
// date itself. Keys are unique, so dates generated by several buckets
// appear once.
type DateSet map[string]civil.Date

func (s DateSet) add(d civil.Date) {
	s[d.String()] = d
}

// Contains reports whether the date is retained.
func (s DateSet) Contains(d civil.Date) bool {
	_, ok := s[d.String()]
	return ok
}

// Len returns the number of retained dates.
func (s DateSet) Len() int {
	return len(s)
}

// Strings returns the retained dates as ISO 8601 strings, ordered from the
// current date outwards: descending for Past, ascending for Future.
// The current date is always at position 0.
func (s DateSet) Strings(direction Direction) []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	if direction == Future {
		sort.Strings(keys)
	} else {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	}
	return keys
}

// Dates returns the retained dates in the same order as Strings.
func (s DateSet) Dates(direction Direction) []civil.Date {
	keys := s.Strings(direction)
	dates := make([]civil.Date, len(keys))
	for i, key := range keys {
		dates[i] = s[key]
	}
	return dates
}
