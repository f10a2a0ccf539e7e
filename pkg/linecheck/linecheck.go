// Package linecheck samples a log file and reports how well its lines
// conform to the access-log grammar.
package linecheck

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ccollicutt/logtally/pkg/accesslog"
	"github.com/ccollicutt/logtally/pkg/source"
)

// DefaultSampleSize is the number of non-blank lines examined by default.
const DefaultSampleSize = 100

// maxReported caps the malformed lines kept in a Result.
const maxReported = 20

// Result holds the outcome of checking a sample.
type Result struct {
	SampledLines int         // Non-blank lines examined
	ParsedLines  int         // Lines that parsed into a record
	Malformed    []Malformed // First malformed lines, in file order
	SampleLine   string      // First line that parsed
	Earliest     time.Time   // Earliest record time in the sample
	Latest       time.Time   // Latest record time in the sample
}

// Malformed describes a line that failed to parse.
type Malformed struct {
	LineNum int    `json:"line"`
	Text    string `json:"text"`
	Reason  string `json:"reason"`
}

// Conformance returns the fraction of sampled lines that parsed, 0.0 to 1.0.
func (r *Result) Conformance() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.ParsedLines) / float64(r.SampledLines)
}

// Conforms returns true if the sample was non-empty and every line parsed.
func (r *Result) Conforms() bool {
	return r.SampledLines > 0 && r.ParsedLines == r.SampledLines
}

// MalformedLines returns the number of sampled lines that did not parse.
func (r *Result) MalformedLines() int {
	return r.SampledLines - r.ParsedLines
}

// Checker samples log sources.
type Checker struct {
	sampleSize int
}

// Option configures the Checker.
type Option func(*Checker)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// New creates a new Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SampleSize returns the configured sample size.
func (c *Checker) SampleSize() int {
	return c.sampleSize
}

// CheckFile samples the head of a log file. Compressed files are read
// transparently.
func (c *Checker) CheckFile(ctx context.Context, path string) (*Result, error) {
	src := source.NewFileSource(path)
	defer src.Close()
	return c.CheckSource(ctx, src)
}

// CheckSource samples up to the configured number of non-blank lines from src.
func (c *Checker) CheckSource(ctx context.Context, src source.LineSource) (*Result, error) {
	result := &Result{}

	for result.SampledLines < c.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line.Text == "" {
			continue
		}
		result.add(line.LineNum, line.Text)
	}

	return result, nil
}

// CheckLines checks a slice of lines, numbering them from 1.
func (c *Checker) CheckLines(lines []string) *Result {
	result := &Result{}
	for i, line := range lines {
		if result.SampledLines >= c.sampleSize {
			break
		}
		if line == "" {
			continue
		}
		result.add(i+1, line)
	}
	return result
}

func (r *Result) add(lineNum int, text string) {
	r.SampledLines++

	record, err := accesslog.Parse(text)
	if err != nil {
		if len(r.Malformed) < maxReported {
			r.Malformed = append(r.Malformed, Malformed{
				LineNum: lineNum,
				Text:    text,
				Reason:  err.Error(),
			})
		}
		return
	}

	r.ParsedLines++
	if r.SampleLine == "" {
		r.SampleLine = text
	}

	t := record.Time()
	if r.Earliest.IsZero() || t.Before(r.Earliest) {
		r.Earliest = t
	}
	if r.Latest.IsZero() || t.After(r.Latest) {
		r.Latest = t
	}
}
