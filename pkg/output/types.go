// Package output renders the summary of a filter run.
package output

import (
	"time"

	"github.com/ccollicutt/logwindow/pkg/filter"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// Report is the complete run summary.
type Report struct {
	Summary  Summary       `json:"summary"`
	Inputs   []InputReport `json:"inputs"`
	Failed   []FailedInput `json:"failed,omitempty"`
	Metadata Metadata      `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	LinesProcessed int `json:"lines_processed"`
	Accepted       int `json:"accepted"`
	OutOfRange     int `json:"out_of_range"`
	Unrecognized   int `json:"unrecognized"`
	TooShort       int `json:"too_short"`
	Rewritten      int `json:"rewritten"`

	// Formats counts recognized lines per timestamp format.
	Formats map[string]int `json:"formats,omitempty"`
}

// InputReport holds the counters of a single input.
type InputReport struct {
	Name         string `json:"name"`
	Lines        int    `json:"lines"`
	Accepted     int    `json:"accepted"`
	OutOfRange   int    `json:"out_of_range"`
	Unrecognized int    `json:"unrecognized"`
}

// FailedInput is an input that could not be processed.
type FailedInput struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Metadata provides context about the run.
type Metadata struct {
	ConfigFile string        `json:"config_file,omitempty"`
	Window     TimeRange     `json:"window"`
	Recognizer string        `json:"recognizer"`
	Replace    bool          `json:"replace"`
	Merge      bool          `json:"merge"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// TimeRange is the window that was applied. An empty side is open.
type TimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// RunOptions describes how the filter was configured.
type RunOptions struct {
	ConfigFile string
	Fast       bool
	Replace    bool
	Merge      bool
}

// NewReport creates a Report from a filter run.
func NewReport(result *filter.RunResult, opts RunOptions) *Report {
	recognizer := "reference"
	if opts.Fast {
		recognizer = "fast"
	}

	report := &Report{
		Summary: Summary{
			LinesProcessed: result.Stats.Lines,
			Accepted:       result.Stats.Accepted,
			OutOfRange:     result.Stats.OutOfRange,
			Unrecognized:   result.Stats.Unrecognized,
			TooShort:       result.Stats.TooShort,
			Rewritten:      result.Stats.Rewritten,
		},
		Inputs: make([]InputReport, 0, len(result.Inputs)),
		Metadata: Metadata{
			ConfigFile: opts.ConfigFile,
			Window:     newTimeRange(result.Window),
			Recognizer: recognizer,
			Replace:    opts.Replace,
			Merge:      opts.Merge,
			StartedAt:  result.Start,
			Duration:   result.Duration,
		},
	}

	if byFormat := result.Stats.ByFormat(); len(byFormat) > 0 {
		report.Summary.Formats = make(map[string]int, len(byFormat))
		for f, n := range byFormat {
			report.Summary.Formats[f.String()] = n
		}
	}

	for _, in := range result.Inputs {
		report.Inputs = append(report.Inputs, InputReport{
			Name:         in.Name,
			Lines:        in.Stats.Lines,
			Accepted:     in.Stats.Accepted,
			OutOfRange:   in.Stats.OutOfRange,
			Unrecognized: in.Stats.Unrecognized + in.Stats.TooShort,
		})
	}

	for _, f := range result.Failed {
		report.Failed = append(report.Failed, FailedInput{Name: f.Name, Error: f.Err.Error()})
	}

	return report
}

func newTimeRange(w filter.Window) TimeRange {
	var tr TimeRange
	if w.Start != timestamp.Min {
		tr.Start = w.Start.String()
	}
	if w.End != timestamp.Max {
		tr.End = w.End.String()
	}
	return tr
}

// HasFailures returns true if any input could not be processed.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}
