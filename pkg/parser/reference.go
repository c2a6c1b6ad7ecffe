package parser

import (
	"time"

	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// referenceOrder is the order the reference recognizer tries layouts in.
var referenceOrder = [...]timestamp.Format{timestamp.Carmen, timestamp.Yoda, timestamp.CarmenErr}

// ReferenceRecognizer parses the timestamp prefix with time.Parse.
// It is slower than FastRecognizer but validates full calendar dates,
// and serves as the default recognizer and as a cross-check.
type ReferenceRecognizer struct {
	century timestamp.Century
}

// NewReferenceRecognizer creates a reference recognizer resolving
// two-digit years against c.
func NewReferenceRecognizer(c timestamp.Century) *ReferenceRecognizer {
	return &ReferenceRecognizer{century: c}
}

// Recognize implements Recognizer.
func (r *ReferenceRecognizer) Recognize(line []byte) (Result, bool) {
	if len(line) < MinLineLen {
		return Result{}, false
	}
	for _, f := range referenceOrder {
		ts, err := time.Parse(f.Layout(), string(line[:f.Len()]))
		if err != nil {
			continue
		}
		p, ok := r.pack(ts, f)
		if !ok {
			return Result{}, false
		}
		return Result{Stamp: p, Format: f}, true
	}
	return Result{}, false
}

func (r *ReferenceRecognizer) pack(ts time.Time, f timestamp.Format) (timestamp.Packed, bool) {
	if f == timestamp.Carmen {
		// time.Parse pivots two-digit years at 69; use the configured
		// century instead.
		return timestamp.Encode(ts.Second(), ts.Minute(), ts.Hour(), ts.Day(), int(ts.Month()),
			r.century.Resolve(ts.Year()%100))
	}
	return timestamp.FromTime(ts, r.century)
}
