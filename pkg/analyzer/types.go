// Package analyzer folds access-log sources into per-source statistics.
package analyzer

import (
	"time"

	"github.com/ccollicutt/logtally/pkg/stats"
)

// Result is the outcome of analyzing one source.
type Result struct {
	// Source is the path or name of the analyzed source.
	Source string

	// Stats holds the collected statistics. Nil when Err is set.
	Stats *stats.Aggregator

	// Err is the reason the source was abandoned, if any.
	Err error

	// LinesRead is the number of lines read before finishing or failing.
	LinesRead int

	// Duration is how long the source took to process.
	Duration time.Duration
}

// Failed returns true if the source could not be analyzed.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// AnalysisResult contains the per-source results of one run.
type AnalysisResult struct {
	// Results holds one entry per source, in input order.
	Results []*Result

	// Metadata provides context about the analysis.
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Sources lists the sources that were analyzed.
	Sources []string

	// TimeRange is the time filter applied, if any.
	TimeRange *TimeRange

	// Conditions are the field-prefix filters applied.
	Conditions map[string]string

	// StartTime is when analysis began.
	StartTime time.Time

	// EndTime is when analysis completed.
	EndTime time.Time
}

// TimeRange is an exclusive time window. Either bound may be nil.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// FailedSources returns the number of sources that could not be analyzed.
func (r *AnalysisResult) FailedSources() int {
	count := 0
	for _, result := range r.Results {
		if result.Failed() {
			count++
		}
	}
	return count
}

// Succeeded returns the results that produced statistics.
func (r *AnalysisResult) Succeeded() []*Result {
	ok := make([]*Result, 0, len(r.Results))
	for _, result := range r.Results {
		if !result.Failed() {
			ok = append(ok, result)
		}
	}
	return ok
}
