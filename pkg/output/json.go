package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// QuietReport is the JSON document emitted in quiet mode.
type QuietReport struct {
	Summary  Summary        `json:"summary"`
	Failures []SourceReport `json:"failures,omitempty"`
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		quiet := QuietReport{Summary: report.Summary}
		for _, r := range report.Results {
			if r.Failed() {
				quiet.Failures = append(quiet.Failures, r)
			}
		}
		return encoder.Encode(quiet)
	}

	return encoder.Encode(report)
}
