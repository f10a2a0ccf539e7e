package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/accesslog"
	"github.com/ccollicutt/logtally/pkg/linecheck"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Output      string
	SampleSize  int
	WriteConfig string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <log-file>",
		Short: "Check that a log file is in the access log format",
		Long: `Sample the head of a log file and report how many lines parse as
nginx combined access log lines.

Malformed lines are listed with their line numbers. Since analyze aborts a
source at its first malformed line, this is the quickest way to find out why
a source failed.

Optionally generates a starter config file with --write-config.

Exit codes:
  0 - Every sampled line is valid
  1 - The sample is empty or contains malformed lines
  2 - The file could not be read

Example:
  logtally check /var/log/nginx/access.log
  logtally check --sample 500 /var/log/nginx/access.log.1.gz
  logtally check -w logtally.yaml /var/log/nginx/access.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", linecheck.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	ExitCode = 0
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	c := linecheck.New(linecheck.WithSampleSize(opts.SampleSize))

	result, err := c.CheckFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	w := cmd.OutOrStdout()

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := linecheck.WriteStarterConfig(result, logFile, opts.WriteConfig); err != nil {
			return err
		}
		if opts.Output != "json" {
			fmt.Fprintf(w, "Wrote starter config to: %s\n\n", opts.WriteConfig)
		}
	}

	if !result.Conforms() {
		ExitCode = 1
	}

	switch opts.Output {
	case "json":
		return outputCheckJSON(w, result, logFile)
	case "text":
		return outputCheckText(w, result, logFile)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputCheckText(w io.Writer, result *linecheck.Result, logFile string) error {
	fmt.Fprintln(w, "=== Access Log Format Check ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Valid lines: %d (%.1f%%)\n", result.ParsedLines, result.Conformance()*100)
	fmt.Fprintln(w)

	if result.SampledLines == 0 {
		fmt.Fprintln(w, "The file has no non-blank lines.")
		return nil
	}

	if result.ParsedLines > 0 {
		fmt.Fprintf(w, "Sample record:\n  %s\n", result.SampleLine)
		fmt.Fprintf(w, "Time span: %s .. %s\n",
			result.Earliest.Format("2006-01-02T15:04:05Z07:00"),
			result.Latest.Format("2006-01-02T15:04:05Z07:00"))
		fmt.Fprintln(w)
	}

	if result.Conforms() {
		fmt.Fprintln(w, "All sampled lines are valid.")
		return nil
	}

	fmt.Fprintf(w, "Malformed lines: %d\n", result.MalformedLines())
	for _, m := range result.Malformed {
		fmt.Fprintf(w, "  line %d: %s\n", m.LineNum, m.Text)
	}
	if shown := len(result.Malformed); shown < result.MalformedLines() {
		fmt.Fprintf(w, "  ... and %d more\n", result.MalformedLines()-shown)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Expected format:")
	fmt.Fprintf(w, "  %s\n", accesslog.Example)

	return nil
}

// CheckJSONOutput represents the full JSON output of the check command.
type CheckJSONOutput struct {
	File         string                `json:"file"`
	SampledLines int                   `json:"sampled_lines"`
	ValidLines   int                   `json:"valid_lines"`
	Conformance  float64               `json:"conformance"`
	SampleLine   string                `json:"sample_line,omitempty"`
	Malformed    []linecheck.Malformed `json:"malformed"`
}

func outputCheckJSON(w io.Writer, result *linecheck.Result, logFile string) error {
	out := CheckJSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		ValidLines:   result.ParsedLines,
		Conformance:  result.Conformance(),
		SampleLine:   result.SampleLine,
		Malformed:    make([]linecheck.Malformed, 0, len(result.Malformed)),
	}
	out.Malformed = append(out.Malformed, result.Malformed...)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
