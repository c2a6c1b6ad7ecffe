package filter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ccollicutt/logwindow/pkg/parser"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// Outcome is what the filter decided for a single line.
type Outcome int

const (
	// OutcomeTooShort: the line cannot hold any supported timestamp.
	OutcomeTooShort Outcome = iota
	// OutcomeUnrecognized: no supported timestamp at the start of the line.
	OutcomeUnrecognized
	// OutcomeOutOfRange: recognized, but outside the window.
	OutcomeOutOfRange
	// OutcomeAccepted: recognized and inside the window.
	OutcomeAccepted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTooShort:
		return "too_short"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeOutOfRange:
		return "out_of_range"
	case OutcomeAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// WriteError wraps a failure to write filter output. Output failures are
// fatal: the run stops at the first one.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing output: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Filter selects the lines of a log stream that fall inside a window.
// A Filter is not safe for concurrent use.
type Filter struct {
	window     Window
	recognizer parser.Recognizer
	century    timestamp.Century
	fast       bool
	replace    bool
	merge      bool
	verbosity  int
	bufferSize int
	logger     *slog.Logger
}

// Option configures the Filter.
type Option func(*Filter)

// WithFast selects the fast byte-offset recognizer instead of the
// reference recognizer.
func WithFast(fast bool) Option {
	return func(f *Filter) {
		f.fast = fast
	}
}

// WithReplace rewrites the timestamp of emitted lines into the canonical
// "YYYY-MM-DD HH:MM:SS" form.
func WithReplace(replace bool) Option {
	return func(f *Filter) {
		f.replace = replace
	}
}

// WithMerge interleaves the accepted lines of all inputs in timestamp
// order instead of processing the inputs one after another.
func WithMerge(merge bool) Option {
	return func(f *Filter) {
		f.merge = merge
	}
}

// WithVerbosity sets the diagnostic level. Above 1, skipped lines are
// logged.
func WithVerbosity(v int) Option {
	return func(f *Filter) {
		f.verbosity = v
	}
}

// WithCentury sets the century for two-digit years.
func WithCentury(c timestamp.Century) Option {
	return func(f *Filter) {
		f.century = c
	}
}

// WithBufferSize sets the input and output buffer size.
func WithBufferSize(n int) Option {
	return func(f *Filter) {
		if n > 0 {
			f.bufferSize = n
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRecognizer overrides the recognizer selected by WithFast.
func WithRecognizer(r parser.Recognizer) Option {
	return func(f *Filter) {
		f.recognizer = r
	}
}

// New creates a Filter for the given window.
func New(window Window, opts ...Option) *Filter {
	f := &Filter{
		window:     window,
		bufferSize: parser.DefaultBufferSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.recognizer == nil {
		if f.fast {
			f.recognizer = parser.NewFastRecognizer(f.century)
		} else {
			f.recognizer = parser.NewReferenceRecognizer(f.century)
		}
	}
	return f
}

// Classify decides what happens to a single raw line.
func (f *Filter) Classify(line []byte) (Outcome, parser.Result) {
	if len(line) < parser.MinLineLen {
		return OutcomeTooShort, parser.Result{}
	}
	res, ok := f.recognizer.Recognize(line)
	if !ok {
		return OutcomeUnrecognized, parser.Result{}
	}
	if !f.window.Contains(res.Stamp) {
		return OutcomeOutOfRange, res
	}
	return OutcomeAccepted, res
}

// Process filters one stream. Accepted lines are written to w in input
// order. Process returns a *WriteError if w fails; read errors are
// returned wrapped.
func (f *Filter) Process(ctx context.Context, source string, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	lr := parser.NewLineReader(r, f.bufferSize)

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		line, err := lr.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("reading %s: %w", source, err)
		}

		outcome, res := f.Classify(line)
		stats.record(outcome, res.Format)
		if outcome != OutcomeAccepted {
			f.logSkip(source, lr.LineNum(), line, outcome)
			continue
		}

		rewritten, err := f.emit(w, line, res)
		if err != nil {
			return stats, err
		}
		if rewritten {
			stats.Rewritten++
		}
	}
}

// emit writes an accepted line, substituting the canonical timestamp when
// rewriting is enabled. Yoda lines are already canonical.
func (f *Filter) emit(w io.Writer, line []byte, res parser.Result) (bool, error) {
	if !f.replace || res.Format == timestamp.Yoda {
		if _, err := w.Write(line); err != nil {
			return false, &WriteError{Err: err}
		}
		return false, nil
	}

	canonical := res.Stamp.Canonical()
	if _, err := w.Write(canonical[:]); err != nil {
		return false, &WriteError{Err: err}
	}
	if _, err := w.Write(line[res.Format.Len():]); err != nil {
		return false, &WriteError{Err: err}
	}
	return true, nil
}

func (f *Filter) logSkip(source string, lineNum int, line []byte, outcome Outcome) {
	if f.verbosity <= 1 || outcome == OutcomeOutOfRange {
		return
	}
	f.logger.Debug("skipping line",
		"source", source,
		"line", lineNum,
		"reason", outcome.String(),
		"content", string(line))
}
