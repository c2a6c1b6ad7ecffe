package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccollicutt/logwindow/pkg/config"
	"github.com/ccollicutt/logwindow/pkg/detector"
	"github.com/ccollicutt/logwindow/pkg/parser"

	"github.com/spf13/cobra"
)

// diagnoseSampleSize is the number of lines sampled per input.
const diagnoseSampleSize = 20

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Window boundaries
- Input file existence, readability and compression
- Timestamp recognition against the actual inputs

Example:
  logwindow diagnose logwindow.yaml
  logwindow diagnose -v logwindow.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		return printDiagnostics(w, results, opts)
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		return printDiagnostics(w, results, opts)
	}

	// 3. Check the window
	results = append(results, checkWindow(cfg))

	// 4. Check inputs
	inputResults, files := checkInputs(cfg)
	results = append(results, inputResults...)

	// 5. Check timestamp recognition against actual logs
	results = append(results, checkTimestampFormat(ctx, cfg, files, opts)...)

	// 6. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, opts)...)

	return printDiagnostics(w, results, opts)
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'logwindow detect <log-file> --write-config logwindow.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Use 'logwindow detect <log-file> --write-config logwindow.yaml' to generate a starter config",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"):
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		case strings.Contains(err.Error(), "start") || strings.Contains(err.Error(), "end"):
			result.Suggests = []string{
				"Boundaries are written dd.mm.yyyy HH:MM:SS, e.g. \"30.12.2022 02:30:57\"",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Inputs: %d", len(cfg.Inputs)),
		fmt.Sprintf("Recognizer: %s", recognizerName(cfg.Fast)),
		fmt.Sprintf("Century: %d", cfg.ResolvedCentury()),
	}
	return cfg, result
}

func checkWindow(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Window",
	}

	window := cfg.Window()
	result.Details = []string{
		fmt.Sprintf("Start: %s", boundaryOrOpen(cfg.Start, window.Start.String())),
		fmt.Sprintf("End: %s", boundaryOrOpen(cfg.End, window.End.String())),
	}

	if !cfg.Bounded() {
		result.Status = "warning"
		result.Message = "No start or end configured"
		result.Suggests = []string{
			"Add start and/or end to the config, or pass --start/--end when filtering",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%s .. %s",
		boundaryOrOpen(cfg.Start, window.Start.String()),
		boundaryOrOpen(cfg.End, window.End.String()))
	return result
}

// checkInputs checks every configured input and returns the files that
// could be opened.
func checkInputs(cfg *config.Config) ([]DiagnosticResult, []string) {
	results := []DiagnosticResult{}

	if len(cfg.Inputs) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Inputs",
			Status:  "warning",
			Message: "No inputs defined; standard input will be read",
			Suggests: []string{
				"Add an inputs section to your config",
				"Example: inputs:\n  - /var/log/app/*.log",
			},
		})
		return results, nil
	}

	var readable []string
	for _, input := range cfg.Inputs {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Input: %s", input),
		}

		if input == parser.StdinName {
			result.Status = "ok"
			result.Message = "Standard input"
			results = append(results, result)
			continue
		}

		files, err := parser.ExpandInputs([]string{input})
		if err != nil {
			result.Status = "error"
			result.Message = fmt.Sprintf("Invalid glob pattern: %v", err)
			results = append(results, result)
			continue
		}

		opened := 0
		var problems []string
		for _, file := range files {
			if msg := checkInputFile(file); msg != "" {
				problems = append(problems, fmt.Sprintf("%s: %s", file, msg))
				continue
			}
			opened++
			readable = append(readable, file)
			result.Details = append(result.Details, file)
		}

		switch {
		case opened == 0:
			result.Status = "error"
			result.Message = "No readable files"
			result.Details = problems
			result.Suggests = []string{
				"Check if the log file path is correct",
				"Verify the glob pattern syntax",
			}
		case len(problems) > 0:
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d of %d file(s) cannot be read", len(problems), len(files))
			result.Details = problems
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("%d file(s) readable", opened)
		}
		results = append(results, result)
	}

	if len(readable) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Inputs Summary",
			Status:  "error",
			Message: "No accessible log files found",
			Suggests: []string{
				"Ensure at least one log file exists and is readable",
			},
		})
	}

	return results, readable
}

// checkInputFile returns a problem description, or "" if the file can be
// opened and decompressed.
func checkInputFile(path string) string {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "does not exist"
	}
	if err != nil {
		return fmt.Sprintf("cannot access: %v", err)
	}
	if info.IsDir() {
		return "is a directory"
	}

	rc, err := parser.OpenInput(path)
	if err != nil {
		return fmt.Sprintf("cannot open: %v", err)
	}
	_ = rc.Close()
	return ""
}

func checkTimestampFormat(ctx context.Context, cfg *config.Config, files []string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	d := detector.New(
		detector.WithSampleSize(diagnoseSampleSize),
		detector.WithCentury(cfg.ResolvedCentury()),
	)

	for _, file := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Timestamps: %s", filepath.Base(file)),
		}

		det, err := d.DetectFromFile(ctx, file)
		if err != nil {
			result.Status = "warning"
			result.Message = fmt.Sprintf("Cannot read file: %v", err)
			results = append(results, result)
			continue
		}

		best := det.BestMatch()
		switch {
		case det.SampledLines == 0:
			result.Status = "warning"
			result.Message = "File is empty"
		case best == nil:
			result.Status = "error"
			result.Message = fmt.Sprintf("No recognized timestamps in %d sample lines", det.SampledLines)
			result.Details = []string{"Lines must start with yoda, carmen or carmen-err timestamps"}
			result.Suggests = []string{"Use 'logwindow detect " + file + "' to inspect the file"}
		case det.ParsedLines < det.SampledLines/2:
			result.Status = "warning"
			result.Message = fmt.Sprintf("Only %d/%d sample lines recognized (%s)",
				det.ParsedLines, det.SampledLines, best.Format)
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("%s, %d/%d sample lines recognized",
				best.Format, det.ParsedLines, det.SampledLines)
			if opts.Verbose {
				result.Details = []string{
					"Sample match:",
					truncate(best.SampleLine, 80),
				}
			}
		}

		if cfg.Fast && det.FastMismatches > 0 {
			result.Status = worse(result.Status, "warning")
			result.Details = append(result.Details,
				fmt.Sprintf("Fast recognizer disagrees on %d sample line(s)", det.FastMismatches))
			result.Suggests = append(result.Suggests, "Set fast: false for this input")
		}
		if cfg.Merge && !det.Chronological {
			result.Status = worse(result.Status, "warning")
			result.Details = append(result.Details, "Sample lines are not in chronological order")
			result.Suggests = append(result.Suggests, "Merged output requires sorted inputs")
		}

		results = append(results, result)
	}

	return results
}

// checkWebhooks reports the configured webhooks. Their URLs and triggers
// were already validated by config.Load.
func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", wh.DisplayName()),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
			Details: []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			},
		}
		if wh.Token == "" {
			result.Details = append(result.Details, "Token: not configured")
		} else {
			result.Details = append(result.Details, "Token: configured")
		}
		if wh.Trigger == config.WebhookTriggerNever {
			result.Status = "warning"
			result.Message = "Webhook is disabled (trigger: never)"
		}
		results = append(results, result)
	}

	return results
}

// worse returns the more severe of two statuses.
func worse(a, b string) string {
	rank := map[string]int{"ok": 0, "warning": 1, "error": 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) error {
	ew := &errWriter{w: w}

	ew.printf("=== logwindow Configuration Diagnostics ===\n\n")

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		ew.printf("[%s] %s\n", icon, r.Check)
		ew.printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				ew.printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			ew.printf("      Hint: %s\n", s)
		}

		ew.printf("\n")
	}

	ew.printf("---\n")
	ew.printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		ew.printf("\nFix the errors above before filtering.\n")
	case warnCount > 0:
		ew.printf("\nConfiguration is usable but has warnings.\n")
	default:
		ew.printf("\nConfiguration looks good!\n")
	}
	return ew.err
}
