package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logwindow/pkg/config"
	"github.com/ccollicutt/logwindow/pkg/filter"
	"github.com/ccollicutt/logwindow/pkg/output"
	"github.com/ccollicutt/logwindow/pkg/parser"
	"github.com/ccollicutt/logwindow/pkg/webhook"
)

// ErrNoWindow is returned when neither boundary of the window is given.
var ErrNoWindow = errors.New("at least one of --start or --end is required")

// FilterOptions holds command-line options for the filter command.
type FilterOptions struct {
	Start      string
	End        string
	Fast       bool
	Replace    bool
	Merge      bool
	Debug      int
	ConfigFile string
	Summary    string
	Quiet      bool

	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand() *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "filter [flags] [file...]",
		Short: "Print log lines inside a time window",
		Long: `Print the lines of one or more log files whose leading timestamp falls
inside the window given by --start and --end (both inclusive).

Recognized timestamps:
  yoda        2023-01-26 09:32:28
  carmen      30.12.22 00:22:52
  carmen-err  20230729111238

Boundaries are written dd.mm.yyyy HH:MM:SS; two-digit years and one-digit
fields are accepted. Lines without a recognized timestamp are dropped.
With no files, or "-", standard input is read. Files ending in .gz, .zst
or .lz4 are decompressed on the fly.

Exit codes:
  0 - Success
  1 - Some inputs could not be opened
  2 - Configuration or runtime error

Example:
  logwindow filter -s "30.12.22 02:30:57" -e "31.12.22 0:0:0" app.log
  logwindow filter -s "1.1.2023 0:0:0" -r /var/log/app/*.log.gz
  zcat app.log.gz | logwindow filter -f -e "26.01.2023 12:00:00"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "Window start, dd.mm.yyyy HH:MM:SS (inclusive)")
	cmd.Flags().StringVarP(&opts.End, "end", "e", "", "Window end, dd.mm.yyyy HH:MM:SS (inclusive)")
	cmd.Flags().BoolVarP(&opts.Fast, "fast", "f", false, "Use the fast byte-offset recognizer")
	cmd.Flags().BoolVarP(&opts.Replace, "replace", "r", false, "Rewrite timestamps to YYYY-MM-DD HH:MM:SS")
	cmd.Flags().BoolVarP(&opts.Merge, "merge", "m", false, "Interleave inputs in timestamp order")
	cmd.Flags().CountVarP(&opts.Debug, "debug", "d", "Increase diagnostic output (repeatable)")
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "Configuration file")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "Print a run summary to stderr (text|json)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "One-line run summary")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Post the run summary to this URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnFailure),
		"When to fire the webhook (on_failure|always|never)")

	return cmd
}

func runFilter(cmd *cobra.Command, args []string, opts *FilterOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadFilterConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}
	if !cfg.Bounded() {
		return ErrNoWindow
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Inputs
	}
	files, err := parser.ExpandInputs(inputs)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbosity)
	f := filter.New(cfg.Window(), append(cfg.FilterOptions(), filter.WithLogger(logger))...)

	result, err := f.Run(ctx, files, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	logger.Info("processing done",
		"duration", result.Duration,
		"lines", result.Stats.Lines,
		"accepted", result.Stats.Accepted)

	report := output.NewReport(result, output.RunOptions{
		ConfigFile: opts.ConfigFile,
		Fast:       cfg.Fast,
		Replace:    cfg.Replace,
		Merge:      cfg.Merge,
	})

	if cfg.Summary != config.SummaryNone {
		if err := writeSummary(ctx, cmd, cfg, opts.Quiet, report, logger); err != nil {
			return err
		}
	}

	// Webhook errors are logged but don't fail the run.
	sendWebhooks(ctx, cfg.Webhooks, report, logger)

	if result.HasFailures() {
		ExitCode = ExitInputFailed
	}
	return nil
}

// loadFilterConfig builds the effective configuration: defaults, then the
// config file (or the environment when there is none), then any flag that
// was set explicitly.
func loadFilterConfig(ctx context.Context, cmd *cobra.Command, opts *FilterOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(ctx, opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else if err := cfg.ApplyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Start = opts.Start
	}
	if flags.Changed("end") {
		cfg.End = opts.End
	}
	if flags.Changed("fast") {
		cfg.Fast = opts.Fast
	}
	if flags.Changed("replace") {
		cfg.Replace = opts.Replace
	}
	if flags.Changed("merge") {
		cfg.Merge = opts.Merge
	}
	if flags.Changed("debug") {
		cfg.Verbosity = opts.Debug
	}
	if flags.Changed("summary") {
		cfg.Summary = config.SummaryFormat(opts.Summary)
	}
	if opts.WebhookURL != "" {
		cfg.Webhooks = append(cfg.Webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
		})
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeSummary(ctx context.Context, cmd *cobra.Command, cfg *config.Config, quiet bool, report *output.Report, logger *slog.Logger) error {
	formatter, err := output.NewFormatter(string(cfg.Summary), output.FormatOptions{
		Verbose: cfg.Verbosity > 0,
		Quiet:   quiet,
	})
	if err != nil {
		return err
	}

	// The filtered lines own stdout; the summary goes to stderr.
	if err := formatter.Format(ctx, report, cmd.ErrOrStderr()); err != nil {
		logger.Warn("writing summary failed", "error", err)
	}
	return nil
}

// sendWebhooks posts the report to every webhook whose trigger matches.
func sendWebhooks(ctx context.Context, hooks []config.WebhookConfig, report *output.Report, logger *slog.Logger) {
	if len(hooks) == 0 {
		return
	}

	client := webhook.NewClient(Version)
	payload := webhook.NewPayload(report)

	for _, wh := range hooks {
		if !wh.ShouldFire(report.HasFailures()) {
			continue
		}

		resp := client.Send(ctx, payload, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		if resp.Success() {
			logger.Info("webhook sent", "webhook", wh.DisplayName(), "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			logger.Warn("webhook failed", "webhook", wh.DisplayName(), "error", resp.Error)
		}
	}
}
