package output

import (
	"context"
	"encoding/json"
	"io"
	"sort"
)

// JSONFormatter formats reports as JSON. The full report is indented;
// quiet mode writes one compact line per run so that summaries can be
// appended to a JSON lines file.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// runLine is the quiet record: the window next to the counters it
// produced, and the names of the inputs that failed.
type runLine struct {
	Window TimeRange `json:"window"`
	Summary
	Failed []string `json:"failed,omitempty"`
}

// formatCount is one entry of the verbose per-format breakdown.
type formatCount struct {
	Format string  `json:"format"`
	Lines  int     `json:"lines"`
	Share  float64 `json:"share"`
}

// verboseReport adds the per-format breakdown, ordered by line count.
type verboseReport struct {
	*Report
	FormatBreakdown []formatCount `json:"format_breakdown"`
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)

	if f.opts.Quiet {
		line := runLine{Window: report.Metadata.Window, Summary: report.Summary}
		for _, in := range report.Failed {
			line.Failed = append(line.Failed, in.Name)
		}
		return encoder.Encode(line)
	}

	encoder.SetIndent("", "  ")
	if f.opts.Verbose {
		return encoder.Encode(verboseReport{Report: report, FormatBreakdown: formatBreakdown(report.Summary)})
	}
	return encoder.Encode(report)
}

func formatBreakdown(s Summary) []formatCount {
	recognized := 0
	for _, n := range s.Formats {
		recognized += n
	}

	counts := make([]formatCount, 0, len(s.Formats))
	for name, n := range s.Formats {
		counts = append(counts, formatCount{
			Format: name,
			Lines:  n,
			Share:  float64(n) / float64(recognized),
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Lines != counts[j].Lines {
			return counts[i].Lines > counts[j].Lines
		}
		return counts[i].Format < counts[j].Format
	})
	return counts
}
