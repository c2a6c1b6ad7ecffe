// Package filter selects log lines whose leading timestamp falls inside
// a time window.
package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// Boundary layouts, "dd.mm.yyyy HH:MM:SS". Day, month and time fields may
// have one or two digits; the year two or four.
const (
	boundaryLayout         = "2.1.2006 15:4:5"
	boundaryLayoutTwoDigit = "2.1.06 15:4:5"
)

// ErrInvalidWindow is returned when the start of a window lies after its end.
var ErrInvalidWindow = errors.New("end date must not be before start date")

// BoundaryError reports a window boundary that could not be parsed.
type BoundaryError struct {
	// Boundary is "start" or "end".
	Boundary string
	Text     string
	Err      error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("%s date: couldn't parse %q (want dd.mm.yyyy HH:MM:SS)", e.Boundary, e.Text)
}

func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// Window is an inclusive range of packed timestamps.
type Window struct {
	Start timestamp.Packed
	End   timestamp.Packed
}

// ParseWindow parses the start and end boundaries. An empty string leaves
// that side open. Two-digit years are resolved against c.
func ParseWindow(start, end string, c timestamp.Century) (Window, error) {
	w := Window{Start: timestamp.Min, End: timestamp.Max}

	if start != "" {
		p, err := ParseBoundary(start, c)
		if err != nil {
			return Window{}, &BoundaryError{Boundary: "start", Text: start, Err: err}
		}
		w.Start = p
	}

	if end != "" {
		p, err := ParseBoundary(end, c)
		if err != nil {
			return Window{}, &BoundaryError{Boundary: "end", Text: end, Err: err}
		}
		w.End = p
	}

	return w, nil
}

// ParseBoundary parses a single "dd.mm.yyyy HH:MM:SS" timestamp.
func ParseBoundary(text string, c timestamp.Century) (timestamp.Packed, error) {
	var (
		p  timestamp.Packed
		ok bool
	)

	t, err := time.Parse(boundaryLayout, text)
	if err == nil {
		p, ok = timestamp.FromTime(t, c)
	} else {
		t2, twoDigitErr := time.Parse(boundaryLayoutTwoDigit, text)
		if twoDigitErr != nil {
			return 0, err
		}
		// time.Parse pivots two-digit years at 69; use the century instead.
		p, ok = timestamp.Encode(t2.Second(), t2.Minute(), t2.Hour(), t2.Day(), int(t2.Month()),
			c.Resolve(t2.Year()%100))
	}
	if !ok {
		return 0, fmt.Errorf("timestamp %q out of range", text)
	}
	return p, nil
}

// Validate reports whether the window is well formed (Start <= End).
func (w Window) Validate() bool {
	return w.Start <= w.End
}

// Contains reports whether p lies inside the window, bounds included.
func (w Window) Contains(p timestamp.Packed) bool {
	return p >= w.Start && p <= w.End
}

// Bounded reports whether at least one side of the window is set.
func (w Window) Bounded() bool {
	return w.Start != timestamp.Min || w.End != timestamp.Max
}
