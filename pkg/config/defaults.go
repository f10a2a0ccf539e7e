package config

import (
	"os"
	"strings"
)

// DefaultOutput is the report format used when none is configured.
const DefaultOutput = OutputText

// Environment variable names.
const (
	EnvSources = "LOGTALLY_SOURCES"
	EnvOutput  = "LOGTALLY_OUTPUT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources: []string{},
		Filters: map[string]string{},
		Output:  DefaultOutput,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if sources := os.Getenv(EnvSources); sources != "" {
		c.Sources = splitList(sources)
	}

	if output := os.Getenv(EnvOutput); output != "" {
		c.Output = output
	}
}

// Apply replaces configured values with the non-empty overrides. Filters are
// merged key by key.
func (c *Config) Apply(o Overrides) {
	if len(o.Sources) > 0 {
		c.Sources = o.Sources
	}
	if o.From != "" {
		c.From = o.From
	}
	if o.To != "" {
		c.To = o.To
	}
	if len(o.Filters) > 0 && c.Filters == nil {
		c.Filters = make(map[string]string, len(o.Filters))
	}
	for k, v := range o.Filters {
		c.Filters[k] = v
	}
	if o.Output != "" {
		c.Output = o.Output
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
