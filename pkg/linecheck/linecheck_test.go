package linecheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/ccollicutt/logtally/pkg/accesslog"
	"github.com/ccollicutt/logtally/pkg/config"
)

var validLines = []string{
	`93.180.71.3 - - [17/May/2015:08:05:32 +0000] "GET /downloads/product_1 HTTP/1.1" 304 0 "-" "Debian APT-HTTP/1.3"`,
	`80.91.33.133 - - [17/May/2015:08:05:24 +0000] "GET /downloads/product_1 HTTP/1.1" 304 0 "-" "Debian APT-HTTP/1.3 (0.8.16~exp12ubuntu10.21)"`,
	`217.168.17.5 - - [17/May/2015:08:05:34 +0000] "GET /downloads/product_1 HTTP/1.1" 200 490 "-" "Debian APT-HTTP/1.3 (0.8.10.3)"`,
}

func TestChecker_CheckLines_AllValid(t *testing.T) {
	c := New()
	result := c.CheckLines(validLines)

	if result.SampledLines != 3 {
		t.Errorf("SampledLines = %d, want 3", result.SampledLines)
	}
	if !result.Conforms() {
		t.Errorf("Conforms() = false, malformed: %+v", result.Malformed)
	}
	if result.Conformance() != 1.0 {
		t.Errorf("Conformance() = %v, want 1.0", result.Conformance())
	}
	if result.SampleLine != validLines[0] {
		t.Errorf("SampleLine = %q", result.SampleLine)
	}

	wantEarliest := time.Date(2015, 5, 17, 8, 5, 24, 0, time.UTC)
	wantLatest := time.Date(2015, 5, 17, 8, 5, 34, 0, time.UTC)
	if !result.Earliest.Equal(wantEarliest) {
		t.Errorf("Earliest = %v, want %v", result.Earliest, wantEarliest)
	}
	if !result.Latest.Equal(wantLatest) {
		t.Errorf("Latest = %v, want %v", result.Latest, wantLatest)
	}
}

func TestChecker_CheckLines_Malformed(t *testing.T) {
	lines := []string{
		validLines[0],
		"",
		`256.1.1.1 - - [17/May/2015:08:05:32 +0000] "GET / HTTP/1.1" 200 0 "-" "x"`,
		validLines[1],
		"just some text",
	}

	result := New().CheckLines(lines)

	if result.SampledLines != 4 {
		t.Errorf("SampledLines = %d, want 4 (blank skipped)", result.SampledLines)
	}
	if result.ParsedLines != 2 {
		t.Errorf("ParsedLines = %d, want 2", result.ParsedLines)
	}
	if result.MalformedLines() != 2 {
		t.Errorf("MalformedLines() = %d, want 2", result.MalformedLines())
	}
	if result.Conforms() {
		t.Error("Conforms() = true, want false")
	}
	if len(result.Malformed) != 2 {
		t.Fatalf("Malformed = %d entries, want 2", len(result.Malformed))
	}
	if result.Malformed[0].LineNum != 3 || result.Malformed[1].LineNum != 5 {
		t.Errorf("Malformed line numbers = %d, %d, want 3, 5",
			result.Malformed[0].LineNum, result.Malformed[1].LineNum)
	}
	if !strings.Contains(result.Malformed[0].Reason, accesslog.ErrMalformedLine.Error()) {
		t.Errorf("Reason = %q", result.Malformed[0].Reason)
	}
}

func TestChecker_CheckLines_EmptyInput(t *testing.T) {
	result := New().CheckLines(nil)

	if result.SampledLines != 0 {
		t.Errorf("SampledLines = %d, want 0", result.SampledLines)
	}
	if result.Conforms() {
		t.Error("Conforms() should be false for an empty sample")
	}
	if result.Conformance() != 0 {
		t.Errorf("Conformance() = %v, want 0", result.Conformance())
	}
}

func TestChecker_CheckLines_ReportCap(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "garbage"
	}

	result := New().CheckLines(lines)

	if result.MalformedLines() != 50 {
		t.Errorf("MalformedLines() = %d, want 50", result.MalformedLines())
	}
	if len(result.Malformed) != maxReported {
		t.Errorf("len(Malformed) = %d, want %d", len(result.Malformed), maxReported)
	}
}

func TestChecker_WithSampleSize(t *testing.T) {
	c := New(WithSampleSize(2))
	if c.SampleSize() != 2 {
		t.Errorf("SampleSize() = %d, want 2", c.SampleSize())
	}

	result := c.CheckLines(validLines)
	if result.SampledLines != 2 {
		t.Errorf("SampledLines = %d, want 2", result.SampledLines)
	}
}

func TestChecker_WithSampleSize_Invalid(t *testing.T) {
	c := New(WithSampleSize(0))
	if c.SampleSize() != DefaultSampleSize {
		t.Errorf("SampleSize() = %d, want default %d", c.SampleSize(), DefaultSampleSize)
	}
}

func TestChecker_CheckFile(t *testing.T) {
	content := validLines[0] + "\n\n" + "broken line\n" + validLines[1] + "\n"
	path := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().CheckFile(context.Background(), path)
	if err != nil {
		t.Fatalf("CheckFile() error = %v", err)
	}

	if result.SampledLines != 3 || result.ParsedLines != 2 {
		t.Errorf("Sampled/Parsed = %d/%d, want 3/2", result.SampledLines, result.ParsedLines)
	}
	if len(result.Malformed) != 1 || result.Malformed[0].LineNum != 3 {
		t.Errorf("Malformed = %+v, want line 3", result.Malformed)
	}
}

func TestChecker_CheckFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(strings.Join(validLines, "\n") + "\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	result, err := New().CheckFile(context.Background(), path)
	if err != nil {
		t.Fatalf("CheckFile() error = %v", err)
	}
	if !result.Conforms() || result.SampledLines != 3 {
		t.Errorf("result = %+v, want 3 conforming lines", result)
	}
}

func TestChecker_CheckFile_NotFound(t *testing.T) {
	_, err := New().CheckFile(context.Background(), "/nonexistent/file.log")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CheckFile() error = %v, want os.ErrNotExist", err)
	}
}

func TestStarterConfig_Loads(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "access.log")
	result := New().CheckLines(validLines)

	data, err := StarterConfig(result, logFile)
	if err != nil {
		t.Fatalf("StarterConfig() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# logtally configuration") {
		t.Errorf("missing header:\n%s", data)
	}
	if !strings.Contains(string(data), "# Sample conformance: 100% (3/3 lines)") {
		t.Errorf("missing conformance note:\n%s", data)
	}

	cfgPath := filepath.Join(dir, "logtally.yaml")
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(context.Background(), cfgPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v\n%s", err, data)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != logFile {
		t.Errorf("Sources = %v, want [%s]", cfg.Sources, logFile)
	}
	if cfg.Output != config.OutputText {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
}

func TestWriteStarterConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "logtally.yaml")
	result := New().CheckLines(validLines)

	if err := WriteStarterConfig(result, "access.log", cfgPath); err != nil {
		t.Fatalf("WriteStarterConfig() error = %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	// Refuses to overwrite
	err := WriteStarterConfig(result, "access.log", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("WriteStarterConfig() error = %v, want overwrite refusal", err)
	}
}

func TestWriteStarterConfig_NothingParsed(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "logtally.yaml")
	result := New().CheckLines([]string{"garbage"})

	if err := WriteStarterConfig(result, "access.log", cfgPath); err == nil {
		t.Error("WriteStarterConfig() expected error when no line parsed")
	}
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		t.Error("config should not have been written")
	}
}
