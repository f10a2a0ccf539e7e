package analyzer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/logtally/pkg/accesslog"
	"github.com/ccollicutt/logtally/pkg/filter"
	"github.com/ccollicutt/logtally/pkg/source"
	"github.com/ccollicutt/logtally/pkg/stats"
)

// Analyzer runs the parse-filter-aggregate pipeline over a set of sources.
type Analyzer struct {
	from       *time.Time
	to         *time.Time
	conditions map[string]string
	open       Opener
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithTimeRange limits analysis to records strictly between from and to.
// Either bound may be nil.
func WithTimeRange(from, to *time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.from = from
		a.to = to
	}
}

// WithFieldFilter keeps only records whose fields start with the given prefixes.
// Field names must already be validated against accesslog.FieldNames.
func WithFieldFilter(conditions map[string]string) AnalyzerOption {
	return func(a *Analyzer) {
		a.conditions = conditions
	}
}

// WithOpener replaces the function used to open sources.
func WithOpener(open Opener) AnalyzerOption {
	return func(a *Analyzer) {
		if open != nil {
			a.open = open
		}
	}
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		open: FileOpener,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Filter returns the record filter built from the analyzer's options.
func (a *Analyzer) Filter() *filter.Filter {
	return filter.New(a.from, a.to, a.conditions)
}

// AnalyzeAll processes every path independently. A failing source is recorded
// in its Result and does not stop the others; only context cancellation ends
// the run early.
func (a *Analyzer) AnalyzeAll(ctx context.Context, paths []string) (*AnalysisResult, error) {
	f := a.Filter()
	result := &AnalysisResult{
		Results: make([]*Result, 0, len(paths)),
		Metadata: AnalysisMetadata{
			Sources:    paths,
			Conditions: f.Conditions(),
			StartTime:  time.Now(),
		},
	}
	if a.from != nil || a.to != nil {
		result.Metadata.TimeRange = &TimeRange{From: a.from, To: a.to}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r := a.analyzePath(ctx, path, f)
		if r.Err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Results = append(result.Results, r)
	}

	result.Metadata.EndTime = time.Now()

	return result, nil
}

func (a *Analyzer) analyzePath(ctx context.Context, path string, f *filter.Filter) *Result {
	start := time.Now()
	src := a.open(path)
	defer src.Close()

	agg, lines, err := fold(ctx, src, f)
	return &Result{
		Source:    path,
		Stats:     agg,
		Err:       err,
		LinesRead: lines,
		Duration:  time.Since(start),
	}
}

// Analyze folds a single source into a fresh aggregator seeded with the
// source name and the filter's time bounds. Blank lines are skipped. A
// malformed line aborts the source: no statistics are returned and the
// error wraps accesslog.ErrMalformedLine. The caller remains responsible for
// closing src.
func Analyze(ctx context.Context, src source.LineSource, f *filter.Filter) (*stats.Aggregator, error) {
	agg, _, err := fold(ctx, src, f)
	return agg, err
}

func fold(ctx context.Context, src source.LineSource, f *filter.Filter) (*stats.Aggregator, int, error) {
	agg := stats.New(src.Name(), f.From(), f.To())
	lines := 0

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, lines, fmt.Errorf("reading log source: %w", err)
		}
		lines++

		if line.Text == "" {
			continue
		}

		record, err := accesslog.Parse(line.Text)
		if err != nil {
			return nil, lines, fmt.Errorf("%s:%d: %w", line.Source, line.LineNum, err)
		}

		ok, err := f.Accepts(record)
		if err != nil {
			return nil, lines, fmt.Errorf("filtering %s:%d: %w", line.Source, line.LineNum, err)
		}
		if !ok {
			continue
		}

		agg.Update(record)
	}

	return agg, lines, nil
}
