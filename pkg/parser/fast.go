package parser

import "github.com/ccollicutt/logwindow/pkg/timestamp"

// separator is a fixed byte expected at a fixed offset.
type separator struct {
	off int
	b   byte
}

// shape describes one fixed-width timestamp layout: which offsets hold
// separators, which hold digits, and where each two-digit field starts.
type shape struct {
	format timestamp.Format
	minLen int
	seps   []separator
	digits []int

	// yearHi is the offset of the century digits, -1 if the year has
	// only two digits and needs the century.
	yearHi int
	yearLo int
	month  int
	day    int
	hour   int
	minute int
	second int
}

// prefilterDigits are digits in every supported shape.
var prefilterDigits = [...]int{0, 1, 3, 6, 9, 12}

// shapes in recognition order. The first structural match decides.
var shapes = []shape{
	{
		// 2023-01-26 09:32:28
		format: timestamp.Yoda,
		minLen: 19,
		seps:   []separator{{4, '-'}, {7, '-'}, {10, ' '}, {13, ':'}, {16, ':'}},
		digits: []int{2, 5, 8, 11, 14, 15, 17, 18},
		yearHi: 0, yearLo: 2, month: 5, day: 8, hour: 11, minute: 14, second: 17,
	},
	{
		// 20230729111238
		format: timestamp.CarmenErr,
		minLen: 15,
		digits: []int{2, 4, 5, 7, 8, 10, 11, 13},
		yearHi: 0, yearLo: 2, month: 4, day: 6, hour: 8, minute: 10, second: 12,
	},
	{
		// 30.12.22 00:22:52
		format: timestamp.Carmen,
		minLen: 17,
		seps:   []separator{{2, '.'}, {5, '.'}, {8, ' '}, {11, ':'}, {14, ':'}},
		digits: []int{4, 7, 10, 13, 15, 16},
		yearHi: -1, yearLo: 6, month: 3, day: 0, hour: 9, minute: 12, second: 15,
	},
}

// FastRecognizer identifies timestamps by checking bytes at fixed
// offsets and computing field values from ASCII digits directly.
// It does not allocate.
type FastRecognizer struct {
	century timestamp.Century
}

// NewFastRecognizer creates a fast recognizer resolving two-digit years
// against c.
func NewFastRecognizer(c timestamp.Century) *FastRecognizer {
	return &FastRecognizer{century: c}
}

// Recognize implements Recognizer.
func (r *FastRecognizer) Recognize(line []byte) (Result, bool) {
	if !prefilter(line) {
		return Result{}, false
	}
	for i := range shapes {
		s := &shapes[i]
		if !s.matches(line) {
			continue
		}
		p, ok := s.extract(line, r.century)
		if !ok {
			return Result{}, false
		}
		return Result{Stamp: p, Format: s.format}, true
	}
	return Result{}, false
}

func prefilter(line []byte) bool {
	if len(line) <= 14 {
		return false
	}
	for _, off := range prefilterDigits {
		if !isDigit(line[off]) {
			return false
		}
	}
	return true
}

func (s *shape) matches(line []byte) bool {
	if len(line) < s.minLen {
		return false
	}
	for _, sep := range s.seps {
		if line[sep.off] != sep.b {
			return false
		}
	}
	for _, off := range s.digits {
		if !isDigit(line[off]) {
			return false
		}
	}
	return true
}

func (s *shape) extract(line []byte, c timestamp.Century) (timestamp.Packed, bool) {
	var year int
	if s.yearHi < 0 {
		year = c.Resolve(pair(line, s.yearLo))
	} else {
		year = pair(line, s.yearHi)*100 + pair(line, s.yearLo)
	}
	return timestamp.Encode(
		pair(line, s.second),
		pair(line, s.minute),
		pair(line, s.hour),
		pair(line, s.day),
		pair(line, s.month),
		year,
	)
}

// pair reads the two ASCII digits at off. The caller has checked both.
func pair(line []byte, off int) int {
	return int(line[off]-'0')*10 + int(line[off+1]-'0')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
