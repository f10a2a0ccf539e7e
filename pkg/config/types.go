// Package config provides configuration loading and validation for logtally.
package config

import "time"

// Output formats accepted in the output key.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources lists files, directories or doublestar globs to analyze.
	Sources []string `yaml:"sources"`

	// From and To are optional RFC 3339 bounds. Records must fall strictly
	// between them to be counted.
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Filters maps a record field name to a required value prefix.
	Filters map[string]string `yaml:"filters,omitempty"`

	// Output selects the report format: text or json.
	Output string `yaml:"output,omitempty"`

	// Parsed bounds (populated during validation).
	fromTime *time.Time
	toTime   *time.Time
}

// FromTime returns the parsed lower bound, or nil when unset.
func (c *Config) FromTime() *time.Time {
	return c.fromTime
}

// ToTime returns the parsed upper bound, or nil when unset.
func (c *Config) ToTime() *time.Time {
	return c.toTime
}

// Overrides holds values given on the command line. Zero values leave the
// corresponding configuration untouched.
type Overrides struct {
	Sources []string
	From    string
	To      string
	Filters map[string]string
	Output  string
}
