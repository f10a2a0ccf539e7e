package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(t)

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Verify it's valid JSON
	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Summary.SourcesAnalyzed != 2 {
		t.Errorf("SourcesAnalyzed = %d, want 2", parsed.Summary.SourcesAnalyzed)
	}
	if parsed.Summary.TotalRequests.Int64() != 3 {
		t.Errorf("TotalRequests = %s, want 3", parsed.Summary.TotalRequests)
	}
	if len(parsed.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(parsed.Results))
	}

	s := parsed.Results[0].Stats
	if s == nil {
		t.Fatal("Results[0].Stats = nil")
	}
	if s.AverageResponseSize.Int64() != 200 {
		t.Errorf("AverageResponseSize = %s, want 200", s.AverageResponseSize)
	}
	if len(s.TopResources) != 2 || s.TopResources[0].Key != "/downloads/product_1" {
		t.Errorf("TopResources = %v", s.TopResources)
	}
	if parsed.Results[1].Error == "" {
		t.Error("Results[1].Error is empty")
	}
	if parsed.Metadata.TimeRange == nil || parsed.Metadata.TimeRange.From == nil {
		t.Error("Metadata.TimeRange.From missing")
	}
}

func TestJSONFormatter_Format_FieldNames(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	results := raw["results"].([]any)
	first := results[0].(map[string]any)["stats"].(map[string]any)
	for _, key := range []string{"requests", "average_response_size", "response_size_p95", "top_resources", "top_status_codes", "top_remote_addresses", "top_referers"} {
		if _, ok := first[key]; !ok {
			t.Errorf("stats missing key %q", key)
		}
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport(t)

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Quiet mode should only output the summary and failures
	var parsed QuietReport
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Summary.SourcesFailed != 1 {
		t.Errorf("SourcesFailed = %d, want 1", parsed.Summary.SourcesFailed)
	}
	if len(parsed.Failures) != 1 || parsed.Failures[0].Source != "broken.log" {
		t.Errorf("Failures = %+v", parsed.Failures)
	}
}
