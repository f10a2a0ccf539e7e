package linecheck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logtally/pkg/config"
)

// StarterConfig renders a YAML configuration that analyzes logFile.
func StarterConfig(result *Result, logFile string) ([]byte, error) {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	cfg := config.Config{
		Sources: []string{absLogFile},
		Output:  config.OutputText,
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# logtally configuration")
	fmt.Fprintln(&buf, "# Generated by: logtally check")
	fmt.Fprintf(&buf, "# Sample conformance: %.0f%% (%d/%d lines)\n",
		result.Conformance()*100, result.ParsedLines, result.SampledLines)
	if !result.Earliest.IsZero() {
		fmt.Fprintf(&buf, "# Sampled records span %s to %s\n",
			result.Earliest.Format("2006-01-02T15:04:05Z07:00"),
			result.Latest.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Fprintln(&buf, "#")
	fmt.Fprintln(&buf, "# Optional keys:")
	fmt.Fprintln(&buf, "#   from: 2015-05-17T00:00:00Z   # records strictly after")
	fmt.Fprintln(&buf, "#   to: 2015-05-18T00:00:00Z     # records strictly before")
	fmt.Fprintln(&buf, "#   filters:                     # field name -> value prefix")
	fmt.Fprintln(&buf, "#     httpStatus: \"4\"")
	fmt.Fprintln(&buf)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return nil, fmt.Errorf("encoding starter config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding starter config: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteStarterConfig writes a starter config to configPath. An existing file
// is never overwritten, and a sample with no conforming lines is rejected.
func WriteStarterConfig(result *Result, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if result.ParsedLines == 0 {
		return errors.New("cannot generate config: no line in the sample is a valid access-log line")
	}

	data, err := StarterConfig(result, logFile)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
