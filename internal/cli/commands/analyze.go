package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/config"
	"github.com/ccollicutt/logtally/pkg/output"
	"github.com/ccollicutt/logtally/pkg/source"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Config  string
	Output  string
	From    string
	To      string
	Filters []string
	Verbose bool
	Quiet   bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Compute access log statistics",
		Long: `Analyze access logs and report statistics for each source.

Paths may be files, directories or globs (including **). They replace the
sources listed in the configuration file, if one is given. Every source is
analyzed independently; a malformed line aborts only that source.

Filters keep records whose field value starts with the given prefix:
  logtally analyze --filter httpStatus=4 --filter remoteAddress=10. access.log

Time bounds are RFC 3339 and exclusive:
  logtally analyze --from 2015-05-17T08:00:00Z --to 2015-05-17T09:00:00Z access.log

Exit codes:
  0 - All sources analyzed
  1 - At least one source failed
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Only count records after this RFC 3339 time")
	cmd.Flags().StringVar(&opts.To, "to", "", "Only count records before this RFC 3339 time")
	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "Field prefix filter field=prefix (can be repeated)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show filters, line counts and timings")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ExitCode = 0
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadAnalyzeConfig(ctx, args, opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Expand log source globs
	files, err := source.ExpandGlobs(cfg.Sources)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no log files matched patterns: %v", cfg.Sources)
	}
	slog.Debug("expanded log sources", "patterns", cfg.Sources, "files", len(files))

	a := analyzer.NewAnalyzer(
		analyzer.WithTimeRange(cfg.FromTime(), cfg.ToTime()),
		analyzer.WithFieldFilter(cfg.Filters),
	)

	// Run analysis
	result, err := a.AnalyzeAll(ctx, files)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	for _, r := range result.Results {
		if r.Failed() {
			slog.Warn("source aborted", "source", r.Source, "lines", r.LinesRead, "error", r.Err)
			continue
		}
		slog.Info("source analyzed", "source", r.Source, "lines", r.LinesRead,
			"requests", r.Stats.Requests(), "duration", r.Duration)
	}

	// Create report
	report := output.NewReport(result, opts.Config)

	// Create formatter
	formatter, err := createFormatter(cfg.Output, opts)
	if err != nil {
		return err
	}

	// Output report
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Set exit code based on results
	if report.HasFailures() {
		ExitCode = 1
	}

	return nil
}

// loadAnalyzeConfig merges the optional config file, the environment and the
// command line into a validated configuration.
func loadAnalyzeConfig(ctx context.Context, args []string, opts *AnalyzeOptions) (*config.Config, error) {
	filters, err := config.ParseFilterFlags(opts.Filters)
	if err != nil {
		return nil, err
	}

	overrides := config.Overrides{
		Sources: args,
		From:    opts.From,
		To:      opts.To,
		Filters: filters,
		Output:  opts.Output,
	}

	if opts.Config != "" {
		return config.LoadWithOverrides(ctx, opts.Config, overrides)
	}
	return config.FromFlags(overrides)
}

func createFormatter(format string, opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	f, err := output.NewFormatter(format, formatOpts)
	if err != nil {
		return nil, fmt.Errorf("%w (use text or json)", err)
	}
	return f, nil
}
