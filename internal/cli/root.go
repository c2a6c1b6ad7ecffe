// Package cli provides the command-line interface for logwindow.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/logwindow/internal/cli/commands"
	"github.com/ccollicutt/logwindow/internal/cli/plugins"
)

// Execute runs the root command with the process arguments and returns
// the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], plugins.StdStreams())
}

// Run executes logwindow with args (without the program name) and returns
// the exit code.
func Run(ctx context.Context, args []string, streams plugins.Streams) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(streams.In)
	rootCmd.SetOut(streams.Out)
	rootCmd.SetErr(streams.Err)

	// Check if the first argument might be a plugin command
	potentialCommand := ""
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		potentialCommand = args[0]
	}
	if potentialCommand != "" && !isBuiltinCommand(rootCmd, potentialCommand) {
		if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:], streams)
		}
	}

	commands.ExitCode = commands.ExitOK
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if potentialCommand != "" && !isBuiltinCommand(rootCmd, potentialCommand) {
			printError(streams.Err, plugins.FormatNotFoundError(potentialCommand))
			return commands.ExitFatal
		}
		// SilenceErrors keeps cobra from printing it.
		printError(streams.Err, fmt.Sprintf("Error: %v", err))
		return commands.ExitFatal
	}
	return commands.ExitCode
}

// printError writes msg to w, in bold red when w is a color terminal.
func printError(w io.Writer, msg string) {
	style := newRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	_, _ = fmt.Fprintln(w, style.Render(msg))
}

// newRenderer returns a renderer for w. NO_COLOR disables styling.
func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logwindow",
		Short: "Cut a time window out of log files",
		Long: `logwindow prints the lines of log files whose leading timestamp falls
inside a time window, optionally rewriting the timestamp to a single
canonical form.

It recognizes three timestamp formats at the start of a line:
  yoda        2023-01-26 09:32:28
  carmen      30.12.22 00:22:52
  carmen-err  20230729111238

Inputs may be plain, gzip, zstd or lz4 files, or standard input.

PLUGINS:
  logwindow supports plugins for extended functionality. Plugins are
  standalone binaries named logwindow-<command> that are automatically
  discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the logwindow binary
    2. ~/.logwindow/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewFilterCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
