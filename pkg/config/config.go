package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logtally/pkg/accesslog"
	"github.com/ccollicutt/logtally/pkg/filter"
)

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadWithOverrides(ctx, path, Overrides{})
}

// LoadWithOverrides reads a configuration file, applies environment and
// command line overrides in that order, and validates the result.
func LoadWithOverrides(_ context.Context, path string, o Overrides) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.Apply(o)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromFlags builds a validated configuration without a config file.
func FromFlags(o Overrides) (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	cfg.Apply(o)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks a configuration for errors and parses the time bounds.
func Validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return errors.New("sources: at least one log source is required")
	}

	for i, s := range cfg.Sources {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("sources[%d]: path is empty", i)
		}
	}

	from, err := parseBound(cfg.From)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	to, err := parseBound(cfg.To)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	if from != nil && to != nil && !from.Before(*to) {
		return fmt.Errorf("from (%s) must be before to (%s)", cfg.From, cfg.To)
	}
	cfg.fromTime = from
	cfg.toTime = to

	for name := range cfg.Filters {
		if _, ok := accesslog.LookupField(name); !ok {
			return fmt.Errorf("filters: %w %q (known fields: %s)",
				filter.ErrUnknownField, name, strings.Join(accesslog.FieldNames(), ", "))
		}
	}

	switch cfg.Output {
	case "":
		cfg.Output = DefaultOutput
	case OutputText, OutputJSON:
		// Valid
	default:
		return fmt.Errorf("output: invalid format %q (must be text or json)", cfg.Output)
	}

	return nil
}

func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid RFC 3339 time %q", s)
	}
	return &t, nil
}

// ParseFilterFlags converts field=prefix pairs into a filter map. An empty
// prefix is allowed and matches every record.
func ParseFilterFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filters := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid filter %q (expected field=prefix)", p)
		}
		if _, dup := filters[name]; dup {
			return nil, fmt.Errorf("filter field %q given more than once", name)
		}
		filters[name] = value
	}
	return filters, nil
}
