// Package parser provides log input reading and timestamp recognition.
package parser

import "github.com/ccollicutt/logwindow/pkg/timestamp"

// MinLineLen is the shortest line that can carry any supported
// timestamp. Shorter lines are skipped without running a recognizer.
const MinLineLen = 19

// Result is a recognized timestamp and the shape it was read from.
type Result struct {
	Stamp  timestamp.Packed
	Format timestamp.Format
}

// Recognizer finds the timestamp at the start of a raw log line.
// The second return value is false when the line does not start with a
// supported timestamp; that is an ordinary outcome, not an error.
type Recognizer interface {
	Recognize(line []byte) (Result, bool)
}

// Line is a single raw log line with its recognized timestamp.
type Line struct {
	// Raw is the line content including the trailing newline, if any.
	Raw []byte

	// Result is the recognized timestamp. Zero if not yet classified.
	Result

	// Source is the file path this line came from ("-" for stdin).
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}
