package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logwindow/pkg/config"
	"github.com/ccollicutt/logwindow/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logwindow configuration file without reading any logs.

Checks:
  - YAML syntax
  - Window boundaries and their order
  - Century, buffer size and summary format
  - Input file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ew := &errWriter{w: cmd.OutOrStdout()}

	ew.printf("Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	window := cfg.Window()
	ew.printf("\nConfiguration valid!\n")
	ew.printf("  Window:      %s .. %s\n", boundaryOrOpen(cfg.Start, window.Start.String()),
		boundaryOrOpen(cfg.End, window.End.String()))
	ew.printf("  Century:     %d\n", cfg.ResolvedCentury())
	ew.printf("  Recognizer:  %s\n", recognizerName(cfg.Fast))
	ew.printf("  Inputs:      %d pattern(s)\n", len(cfg.Inputs))

	if !cfg.Bounded() {
		ew.printf("\nWarning: No start or end set; pass --start or --end when filtering\n")
	}

	files, err := parser.ExpandInputs(cfg.Inputs)
	switch {
	case err != nil:
		ew.printf("\nWarning: Error expanding input patterns: %v\n", err)
	case len(files) == 0:
		ew.printf("\nNo inputs configured; standard input will be read\n")
	default:
		ew.printf("\nInputs:\n")
		for _, f := range files {
			ew.printf("  - %s\n", f)
		}
	}

	return ew.err
}

func boundaryOrOpen(text, resolved string) string {
	if text == "" {
		return "(open)"
	}
	return resolved
}

func recognizerName(fast bool) string {
	if fast {
		return "fast"
	}
	return "reference"
}
