package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/logtally/pkg/stats"
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
	_, err := fmt.Fprintf(w, "logtally: %d sources analyzed, %d failed, %s total requests\n",
		report.Summary.SourcesAnalyzed,
		report.Summary.SourcesFailed,
		report.Summary.TotalRequests)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== logtally Analysis Report ===")
	fmt.Fprintln(w)

	if f.opts.Verbose {
		f.formatFilters(report.Metadata, w)
	}

	for _, result := range report.Results {
		f.formatSource(result, w)
	}

	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d sources analyzed, %d failed, %s total requests\n",
		report.Summary.SourcesAnalyzed,
		report.Summary.SourcesFailed,
		report.Summary.TotalRequests)
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func (f *TextFormatter) formatFilters(md Metadata, w io.Writer) {
	if md.TimeRange != nil {
		fmt.Fprintf(w, "Time range: %s .. %s\n", bound(md.TimeRange.From), bound(md.TimeRange.To))
	}
	if len(md.Filters) > 0 {
		keys := make([]string, 0, len(md.Filters))
		for k := range md.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%q*", k, md.Filters[k]))
		}
		fmt.Fprintf(w, "Filters: %s\n", strings.Join(parts, ", "))
	}
	if md.TimeRange != nil || len(md.Filters) > 0 {
		fmt.Fprintln(w)
	}
}

func bound(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(time.RFC3339)
}

func (f *TextFormatter) formatSource(result SourceReport, w io.Writer) {
	fmt.Fprintf(w, "[%s]\n", result.Source)

	if result.Failed() {
		fmt.Fprintf(w, "  FAILED: %s\n", result.Error)
		fmt.Fprintln(w)
		return
	}

	s := result.Stats
	fmt.Fprintf(w, "  Requests: %s\n", s.Requests)
	if f.opts.Verbose {
		fmt.Fprintf(w, "  Lines read: %d\n", result.LinesRead)
	}
	fmt.Fprintf(w, "  Average response size: %s\n", s.AverageResponseSize)
	fmt.Fprintf(w, "  95th percentile response size: %s\n", s.ResponseSizeP95)

	formatTable(w, "Top resources", s.TopResources)
	formatTable(w, "Top status codes", s.TopStatusCodes)
	formatTable(w, "Top remote addresses", s.TopRemoteAddresses)
	formatTable(w, "Top referers", s.TopReferers)

	fmt.Fprintln(w)
}

func formatTable(w io.Writer, title string, entries []stats.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "  %s: none\n", title)
		return
	}

	fmt.Fprintf(w, "  %s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(w, "    %8s  %s\n", e.Count, e.Key)
	}
}
