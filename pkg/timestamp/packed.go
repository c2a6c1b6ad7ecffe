// Package timestamp provides the packed integer representation of log
// timestamps shared by the recognizers, the filter window and the
// canonical rewriter.
package timestamp

import (
	"math"
	"time"
)

// Packed is a timestamp encoded into a single integer.
//
// Layout, low to high: second (bits 0-7), minute (8-15), hour (16-23),
// day (24-31), month (32-39), year (40-63). Because the fields are
// packed most significant first, comparing two Packed values with < and
// > orders them chronologically as long as every field is in range.
type Packed uint64

const (
	// Min is the smallest possible Packed value, used as the open start
	// of a window.
	Min Packed = 0

	// Max is the largest possible Packed value, used as the open end of
	// a window.
	Max Packed = math.MaxUint64
)

// Valid field ranges. Hour 24 is accepted on purpose: some producers
// write midnight as 24:00:00.
const (
	MaxSecond = 59
	MaxMinute = 59
	MaxHour   = 24
	MaxDay    = 31
	MaxMonth  = 12
	MinYear   = 1000
	MaxYear   = 4000
)

const (
	shiftMinute = 8
	shiftHour   = 16
	shiftDay    = 24
	shiftMonth  = 32
	shiftYear   = 40
)

// Fields holds the calendar fields of a timestamp.
type Fields struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Encode validates each field against its range and packs them.
// It returns false if any field is out of range. Only per-field ranges
// are checked; 31.02. is accepted.
func Encode(second, minute, hour, day, month, year int) (Packed, bool) {
	if uint(second) > MaxSecond || uint(minute) > MaxMinute || uint(hour) > MaxHour ||
		uint(day) > MaxDay || uint(month) > MaxMonth || year < MinYear || year > MaxYear {
		return 0, false
	}
	return Packed(second) |
		Packed(minute)<<shiftMinute |
		Packed(hour)<<shiftHour |
		Packed(day)<<shiftDay |
		Packed(month)<<shiftMonth |
		Packed(year)<<shiftYear, true
}

// Pack encodes f, see Encode.
func (f Fields) Pack() (Packed, bool) {
	return Encode(f.Second, f.Minute, f.Hour, f.Day, f.Month, f.Year)
}

// Decode extracts the calendar fields. No validation is done; p is
// assumed to come from Encode.
func (p Packed) Decode() Fields {
	return Fields{
		Year:   int(p >> shiftYear),
		Month:  int(p >> shiftMonth & 0xff),
		Day:    int(p >> shiftDay & 0xff),
		Hour:   int(p >> shiftHour & 0xff),
		Minute: int(p >> shiftMinute & 0xff),
		Second: int(p & 0xff),
	}
}

// FromTime packs the wall clock fields of t. Years up to 99 are taken
// as two-digit years and resolved against c.
func FromTime(t time.Time, c Century) (Packed, bool) {
	year := t.Year()
	if year >= 0 && year <= 99 {
		year = c.Resolve(year)
	}
	return Encode(t.Second(), t.Minute(), t.Hour(), t.Day(), int(t.Month()), year)
}

// String returns the canonical text form.
func (p Packed) String() string {
	c := p.Canonical()
	return string(c[:])
}
