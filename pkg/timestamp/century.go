package timestamp

import "time"

// Century is the century assumed for two-digit years, e.g. 2000.
// It is computed once at startup and passed by value to everything that
// has to resolve a two-digit year.
type Century int

// CurrentCentury returns the century of now in the local time zone.
func CurrentCentury(now time.Time) Century {
	return Century((now.Local().Year() / 100) * 100)
}

// Resolve returns the four-digit year for a two-digit year.
func (c Century) Resolve(twoDigit int) int {
	return int(c) + twoDigit
}
