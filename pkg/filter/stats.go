package filter

import "github.com/ccollicutt/logwindow/pkg/timestamp"

// Stats counts what happened to the lines of one or more inputs.
type Stats struct {
	Lines        int
	TooShort     int
	Unrecognized int
	OutOfRange   int
	Accepted     int
	Rewritten    int

	// formats counts recognized lines (accepted or out of range) per format.
	formats [timestamp.Carmen + 1]int
}

func (s *Stats) record(o Outcome, f timestamp.Format) {
	s.Lines++
	switch o {
	case OutcomeTooShort:
		s.TooShort++
	case OutcomeUnrecognized:
		s.Unrecognized++
	case OutcomeOutOfRange:
		s.OutOfRange++
		s.formats[f]++
	case OutcomeAccepted:
		s.Accepted++
		s.formats[f]++
	}
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Lines += other.Lines
	s.TooShort += other.TooShort
	s.Unrecognized += other.Unrecognized
	s.OutOfRange += other.OutOfRange
	s.Accepted += other.Accepted
	s.Rewritten += other.Rewritten
	for i := range s.formats {
		s.formats[i] += other.formats[i]
	}
}

// Recognized returns the number of lines whose timestamp was recognized.
func (s Stats) Recognized() int {
	return s.Accepted + s.OutOfRange
}

// ByFormat returns the number of recognized lines per format. Formats
// that were not seen are omitted.
func (s Stats) ByFormat() map[timestamp.Format]int {
	out := make(map[timestamp.Format]int)
	for _, f := range timestamp.Formats {
		if n := s.formats[f]; n > 0 {
			out[f] = n
		}
	}
	return out
}
