package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/config"
	"github.com/ccollicutt/logtally/pkg/source"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logtally configuration file without running analysis.

Checks:
  - YAML syntax
  - At least one source
  - RFC 3339 time bounds, from before to
  - Filter field names
  - Output format
  - Log source file existence (warning only)`,
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
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Log sources: %d pattern(s)\n", len(cfg.Sources))
	fmt.Fprintf(w, "  From:        %s\n", orAny(cfg.From))
	fmt.Fprintf(w, "  To:          %s\n", orAny(cfg.To))
	fmt.Fprintf(w, "  Output:      %s\n", cfg.Output)

	if len(cfg.Filters) > 0 {
		names := make([]string, 0, len(cfg.Filters))
		for name := range cfg.Filters {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "\nFilters:\n")
		for i, name := range names {
			fmt.Fprintf(w, "  %d. %s starts with %q\n", i+1, name, cfg.Filters[name])
		}
	}

	// Check if log sources exist (warnings only)
	files, err := source.ExpandGlobs(cfg.Sources)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding log source patterns: %v\n", err)
	} else {
		var found, missing []string
		for _, f := range files {
			if _, err := os.Stat(f); err != nil {
				missing = append(missing, f)
			} else {
				found = append(found, f)
			}
		}

		if len(found) == 0 {
			fmt.Fprintf(w, "\nWarning: No files match log source patterns\n")
		} else {
			fmt.Fprintf(w, "\nLog files matched: %d\n", len(found))
			for _, f := range found {
				fmt.Fprintf(w, "  - %s\n", f)
			}
		}
		for _, f := range missing {
			fmt.Fprintf(w, "Warning: %s does not exist\n", f)
		}
	}

	return nil
}

func orAny(s string) string {
	if s == "" {
		return "(unbounded)"
	}
	return s
}
