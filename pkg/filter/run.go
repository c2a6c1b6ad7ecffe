package filter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/logwindow/pkg/parser"
)

// InputStats holds the counters of one input.
type InputStats struct {
	Name  string
	Stats Stats
}

// InputError records an input that could not be opened or read.
type InputError struct {
	Name string
	Err  error
}

func (e InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// RunResult summarizes a run over one or more inputs.
type RunResult struct {
	Window   Window
	Stats    Stats
	Inputs   []InputStats
	Failed   []InputError
	Start    time.Time
	Duration time.Duration
}

// failed reports whether the named input is in Failed.
func (r *RunResult) failed(name string) bool {
	for _, e := range r.Failed {
		if e.Name == name {
			return true
		}
	}
	return false
}

// HasFailures reports whether any input could not be processed.
func (r *RunResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Run filters the named inputs into out. With no inputs, or the name "-",
// stdin is read. Inputs that cannot be opened are logged, recorded in
// RunResult.Failed and skipped. A failure to write out aborts the run with
// a *WriteError.
func (f *Filter) Run(ctx context.Context, inputs []string, stdin io.Reader, out io.Writer) (*RunResult, error) {
	if len(inputs) == 0 {
		inputs = []string{parser.StdinName}
	}

	result := &RunResult{
		Window: f.window,
		Start:  time.Now(),
	}
	bw := bufio.NewWriterSize(out, f.bufferSize)

	var err error
	if f.merge {
		err = f.runMerged(ctx, inputs, stdin, bw, result)
	} else {
		err = f.runSequential(ctx, inputs, stdin, bw, result)
	}

	if flushErr := bw.Flush(); flushErr != nil && err == nil {
		err = &WriteError{Err: flushErr}
	}
	result.Duration = time.Since(result.Start)

	for _, in := range result.Inputs {
		result.Stats.Add(in.Stats)
	}
	return result, err
}

func (f *Filter) runSequential(ctx context.Context, inputs []string, stdin io.Reader, w io.Writer, result *RunResult) error {
	for _, name := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			r  io.Reader = stdin
			rc io.ReadCloser
		)
		if name != parser.StdinName {
			var err error
			rc, err = parser.OpenInput(name)
			if err != nil {
				f.fail(result, name, err)
				continue
			}
			r = rc
		}

		stats, err := f.Process(ctx, name, r, w)
		if rc != nil {
			_ = rc.Close()
		}
		result.Inputs = append(result.Inputs, InputStats{Name: name, Stats: stats})

		var werr *WriteError
		switch {
		case err == nil:
			f.logDone(name, stats)
		case errors.As(err, &werr), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			// A corrupt or truncated input stops that input only.
			f.fail(result, name, err)
		}
	}
	return nil
}

func (f *Filter) runMerged(ctx context.Context, inputs []string, stdin io.Reader, w io.Writer, result *RunResult) error {
	// Capacity is fixed up front so the stats pointers handed out below
	// stay valid.
	result.Inputs = make([]InputStats, 0, len(inputs))

	var sources []parser.LogSource
	for _, name := range inputs {
		var src *parser.FileSource
		if name == parser.StdinName {
			src = parser.NewReaderSource(name, stdin, f.bufferSize)
		} else {
			src = parser.NewFileSource(name, f.bufferSize)
			if err := src.Open(); err != nil {
				f.fail(result, name, err)
				continue
			}
		}
		result.Inputs = append(result.Inputs, InputStats{Name: name})
		sources = append(sources, &classifyingSource{
			LogSource: src,
			name:      name,
			filter:    f,
			result:    result,
			stats:     &result.Inputs[len(result.Inputs)-1].Stats,
		})
	}

	merged := parser.NewMergedSource(sources...)
	defer merged.Close()

	for {
		line, err := merged.Next(ctx)
		if err == io.EOF {
			f.logMerged(result)
			return nil
		}
		if err != nil {
			return err
		}

		rewritten, err := f.emit(w, line.Raw, line.Result)
		if err != nil {
			return err
		}
		if rewritten {
			result.Inputs[sourceIndex(result.Inputs, line.Source)].Stats.Rewritten++
		}
	}
}

func sourceIndex(inputs []InputStats, name string) int {
	for i, in := range inputs {
		if in.Name == name {
			return i
		}
	}
	return 0
}

func (f *Filter) fail(result *RunResult, name string, err error) {
	f.logger.Error("skipping input", "input", name, "error", err)
	result.Failed = append(result.Failed, InputError{Name: name, Err: err})
}

// logMerged logs the per-input counts of a merged run. Inputs that failed
// part way were already logged by fail.
func (f *Filter) logMerged(result *RunResult) {
	for _, in := range result.Inputs {
		if !result.failed(in.Name) {
			f.logDone(in.Name, in.Stats)
		}
	}
}

func (f *Filter) logDone(name string, stats Stats) {
	if f.verbosity < 1 {
		return
	}
	f.logger.Info("input done",
		"input", name,
		"lines", stats.Lines,
		"accepted", stats.Accepted,
		"out_of_range", stats.OutOfRange,
		"unrecognized", stats.Unrecognized+stats.TooShort)
}

// classifyingSource yields only the accepted lines of its source, with
// Result set, and counts every line it reads. A read error ends that
// source only: it is recorded in the run result and reported as io.EOF,
// so the other inputs of a merge keep going.
type classifyingSource struct {
	parser.LogSource
	name   string
	filter *Filter
	result *RunResult
	stats  *Stats
}

func (s *classifyingSource) Next(ctx context.Context) (*parser.Line, error) {
	for {
		line, err := s.LogSource.Next(ctx)
		switch {
		case err == nil:
		case err == io.EOF, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			s.filter.fail(s.result, s.name, err)
			return nil, io.EOF
		}

		outcome, res := s.filter.Classify(line.Raw)
		s.stats.record(outcome, res.Format)
		if outcome == OutcomeAccepted {
			line.Result = res
			return line, nil
		}
		s.filter.logSkip(line.Source, line.LineNum, line.Raw, outcome)
	}
}
