// Package output provides formatting and output generation for analysis results.
package output

import (
	"math/big"
	"time"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/stats"
)

// Report is the complete analysis output.
type Report struct {
	// Summary provides aggregate statistics over every source.
	Summary Summary `json:"summary"`

	// Results holds one entry per source, in input order.
	Results []SourceReport `json:"results"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// SourcesAnalyzed is the number of sources that were attempted.
	SourcesAnalyzed int `json:"sources_analyzed"`

	// SourcesFailed is the number of sources aborted by an error.
	SourcesFailed int `json:"sources_failed"`

	// TotalRequests is the number of records counted across successful sources.
	TotalRequests *big.Int `json:"total_requests"`

	// LinesProcessed is the total number of log lines read.
	LinesProcessed int `json:"lines_processed"`
}

// SourceReport is the outcome for a single source. Exactly one of Stats and
// Error is set.
type SourceReport struct {
	Source    string         `json:"source"`
	Stats     *stats.Summary `json:"stats,omitempty"`
	Error     string         `json:"error,omitempty"`
	LinesRead int            `json:"lines_read"`
}

// Failed reports whether the source was aborted.
func (s SourceReport) Failed() bool {
	return s.Error != ""
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the log files that were analyzed.
	Sources []string `json:"sources"`

	// TimeRange is the time filter that was applied, if any.
	TimeRange *TimeRange `json:"time_range,omitempty"`

	// Filters are the field prefix conditions that were applied.
	Filters map[string]string `json:"filters,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// TimeRange represents a time window for filtering. Either bound may be nil.
type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult, configFile string) *Report {
	report := &Report{
		Results: make([]SourceReport, 0, len(result.Results)),
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    result.Metadata.Sources,
			Filters:    result.Metadata.Conditions,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			SourcesAnalyzed: len(result.Results),
			SourcesFailed:   result.FailedSources(),
			TotalRequests:   new(big.Int),
		},
	}

	if result.Metadata.TimeRange != nil {
		report.Metadata.TimeRange = &TimeRange{
			From: result.Metadata.TimeRange.From,
			To:   result.Metadata.TimeRange.To,
		}
	}

	for _, r := range result.Results {
		sr := SourceReport{Source: r.Source, LinesRead: r.LinesRead}
		if r.Failed() {
			sr.Error = r.Err.Error()
		} else {
			s := r.Stats.Snapshot()
			sr.Stats = &s
			report.Summary.TotalRequests.Add(report.Summary.TotalRequests, s.Requests)
		}
		report.Summary.LinesProcessed += r.LinesRead
		report.Results = append(report.Results, sr)
	}

	return report
}

// HasFailures returns true if any source was aborted.
func (r *Report) HasFailures() bool {
	return r.Summary.SourcesFailed > 0
}
