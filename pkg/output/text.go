package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logwindow: %d lines, %d accepted, %d out of range, %d skipped\n",
		report.Summary.LinesProcessed,
		report.Summary.Accepted,
		report.Summary.OutOfRange,
		report.Summary.Unrecognized+report.Summary.TooShort)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("=== logwindow Run Summary ===\n\n")
	ew.printf("Window:     %s .. %s\n", orOpen(report.Metadata.Window.Start), orOpen(report.Metadata.Window.End))
	ew.printf("Recognizer: %s\n", report.Metadata.Recognizer)
	if report.Metadata.ConfigFile != "" {
		ew.printf("Config:     %s\n", report.Metadata.ConfigFile)
	}
	ew.printf("\n")

	if f.opts.Verbose {
		for _, in := range report.Inputs {
			ew.printf("[INPUT] %s\n", in.Name)
			ew.printf("  %d lines, %d accepted, %d out of range, %d unrecognized\n",
				in.Lines, in.Accepted, in.OutOfRange, in.Unrecognized)
		}
		if len(report.Inputs) > 0 {
			ew.printf("\n")
		}
	}

	if len(report.Summary.Formats) > 0 {
		names := make([]string, 0, len(report.Summary.Formats))
		for name := range report.Summary.Formats {
			names = append(names, name)
		}
		sort.Strings(names)

		ew.printf("Formats:\n")
		for _, name := range names {
			ew.printf("  %-12s %d\n", name, report.Summary.Formats[name])
		}
		ew.printf("\n")
	}

	for _, failed := range report.Failed {
		ew.printf("[FAILED] %s: %s\n", failed.Name, failed.Error)
	}
	if len(report.Failed) > 0 {
		ew.printf("\n")
	}

	ew.printf("---\n")
	ew.printf("Summary: %d lines processed, %d accepted, %d out of range, %d unrecognized, %d too short\n",
		report.Summary.LinesProcessed,
		report.Summary.Accepted,
		report.Summary.OutOfRange,
		report.Summary.Unrecognized,
		report.Summary.TooShort)
	if report.Metadata.Replace {
		ew.printf("Rewritten: %d\n", report.Summary.Rewritten)
	}

	if f.opts.Verbose {
		ew.printf("Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return ew.err
}

func orOpen(s string) string {
	if s == "" {
		return "(open)"
	}
	return s
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
