package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logwindow/pkg/config"
	"github.com/ccollicutt/logwindow/pkg/detector"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	Century     int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect timestamp format in a log file",
		Long: `Sample the start of a log file and report which timestamp format its
lines carry, the time span covered by the sample, and whether the sample
is in chronological order (required for --merge).

Compressed files (.gz, .zst, .lz4) are read transparently.

Optionally generates a starter config file with --write-config.

Example:
  logwindow detect /var/log/app.log
  logwindow detect --sample 500 /var/log/app.log.gz
  logwindow detect -w logwindow.yaml /var/log/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().IntVar(&opts.Century, "century", 0, "Century for two-digit years (default: current)")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format: %s (use text or json)", opts.Output)
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	cfg := &config.Config{Century: opts.Century}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithCentury(cfg.ResolvedCentury()),
	)

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return outputDetectJSON(w, result, logFile, opts)
	}
	return outputDetectText(w, result, logFile, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	ew := &errWriter{w: w}

	ew.printf("=== Timestamp Format Detection ===\n\n")
	ew.printf("File: %s\n", logFile)
	ew.printf("Lines sampled: %d\n", result.SampledLines)
	ew.printf("Lines with timestamps: %d\n", result.ParsedLines)
	if result.TooShort > 0 {
		ew.printf("Lines too short: %d\n", result.TooShort)
	}
	ew.printf("\n")

	if !result.HasMatch() {
		ew.printf("No timestamp format detected.\n\n")
		ew.printf("Lines must start with one of:\n")
		for _, f := range timestamp.Formats {
			ew.printf("  %-12s %s\n", f, f.Example())
		}
		return ew.err
	}

	best := result.BestMatch()
	ew.printf("Detected Format: %s\n", best.Format)
	ew.printf("Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	ew.printf("\n")
	ew.printf("Sample match:\n  %s\n", truncate(best.SampleLine, 120))
	ew.printf("Span: %s .. %s\n", best.First, best.Last)
	ew.printf("\n")

	if !result.Chronological {
		ew.printf("WARNING: Sampled timestamps are not in chronological order.\n")
		ew.printf("Merged output (--merge) assumes every input is sorted.\n\n")
	}
	if result.FastMismatches > 0 {
		ew.printf("WARNING: The fast recognizer accepts %d sampled line(s) the calendar check rejects.\n",
			result.FastMismatches)
		ew.printf("Avoid --fast for this file.\n\n")
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		ew.printf("--- Other formats detected ---\n")
		for i, m := range result.Matches[1:] {
			ew.printf("%d. %s (%.1f%%, %d lines)\n", i+2, m.Format, m.Confidence*100, m.MatchCount)
			ew.printf("   %s\n", truncate(m.SampleLine, 120))
		}
		ew.printf("\n")
	}

	return ew.err
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Format     string  `json:"format"`
	Example    string  `json:"example"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
	First      string  `json:"first"`
	Last       string  `json:"last"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File           string      `json:"file"`
	Matches        []JSONMatch `json:"matches"`
	SampledLines   int         `json:"sampled_lines"`
	ParsedLines    int         `json:"parsed_lines"`
	TooShort       int         `json:"too_short"`
	Chronological  bool        `json:"chronological"`
	FastMismatches int         `json:"fast_mismatches,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	output := JSONOutput{
		File:           logFile,
		SampledLines:   result.SampledLines,
		ParsedLines:    result.ParsedLines,
		TooShort:       result.TooShort,
		Chronological:  result.Chronological,
		FastMismatches: result.FastMismatches,
		Matches:        make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		output.Matches = append(output.Matches, JSONMatch{
			Format:     m.Format.String(),
			Example:    m.Format.Example(),
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			First:      m.First.String(),
			Last:       m.Last.String(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// writeStarterConfig generates a starter config file for the detected log.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no timestamp format detected")
	}

	content := generateStarterConfig(logFile, result.BestMatch())

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, err := fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return err
}

// generateStarterConfig creates a YAML config template. The window is
// pre-filled with the sampled span, commented out.
func generateStarterConfig(logFile string, match *detector.FormatMatch) string {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	return fmt.Sprintf(`# logwindow configuration
# Generated by: logwindow detect
# Detected format: %s (%.0f%% confidence)

# Window boundaries, dd.mm.yyyy HH:MM:SS, both inclusive.
# At least one is required.
# start: "%s"
# end: "%s"

inputs:
  - %s
  # Add more log files or use globs:
  # - /var/log/myapp/*.log.gz

# Rewrite recognized timestamps to YYYY-MM-DD HH:MM:SS.
replace: false

# Interleave inputs by timestamp. Inputs must be sorted.
merge: false

# Byte-offset recognizer without calendar checks.
fast: false

# summary: text
`, match.Format, match.Confidence*100,
		boundaryText(match.First),
		boundaryText(match.Last),
		absLogFile)
}

// boundaryText renders a packed timestamp in the boundary syntax.
func boundaryText(p timestamp.Packed) string {
	f := p.Decode()
	return fmt.Sprintf("%02d.%02d.%04d %02d:%02d:%02d", f.Day, f.Month, f.Year, f.Hour, f.Minute, f.Second)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// errWriter keeps the first write error so a sequence of prints can be
// checked once.
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
