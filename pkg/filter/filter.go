// Package filter decides which access-log records are taken into account.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/logtally/pkg/accesslog"
)

// ErrUnknownField is returned when a condition names a field outside the registry.
var ErrUnknownField = errors.New("unknown field")

// Filter accepts records inside an exclusive time window whose fields start with
// the configured prefixes. A nil *Filter accepts everything.
type Filter struct {
	from       *time.Time
	to         *time.Time
	conditions map[string]string
	keys       []string
}

// New creates a filter. Nil bounds impose no constraint.
// Condition keys are field names and are expected to be validated by the caller;
// an unknown name surfaces as an error from Accepts.
func New(from, to *time.Time, conditions map[string]string) *Filter {
	f := &Filter{
		from:       from,
		to:         to,
		conditions: make(map[string]string, len(conditions)),
		keys:       make([]string, 0, len(conditions)),
	}
	for k, v := range conditions {
		f.conditions[k] = v
		f.keys = append(f.keys, k)
	}
	sort.Strings(f.keys)
	return f
}

// From returns the lower time bound, or nil.
func (f *Filter) From() *time.Time {
	if f == nil {
		return nil
	}
	return f.from
}

// To returns the upper time bound, or nil.
func (f *Filter) To() *time.Time {
	if f == nil {
		return nil
	}
	return f.to
}

// Conditions returns a copy of the field-prefix conditions.
func (f *Filter) Conditions() map[string]string {
	out := make(map[string]string)
	if f == nil {
		return out
	}
	for k, v := range f.conditions {
		out[k] = v
	}
	return out
}

// Accepts reports whether r lies strictly between the bounds and every
// condition's value is a prefix of the named field.
func (f *Filter) Accepts(r accesslog.Record) (bool, error) {
	if f == nil {
		return true, nil
	}

	if !InRange(r.Time(), f.from, f.to) {
		return false, nil
	}

	for _, name := range f.keys {
		value, ok := accesslog.FieldValue(r, name)
		if !ok {
			return false, fmt.Errorf("%w %q", ErrUnknownField, name)
		}
		if !strings.HasPrefix(value, f.conditions[name]) {
			return false, nil
		}
	}

	return true, nil
}

// Accepts is a convenience wrapper around New(from, to, conditions).Accepts(r).
func Accepts(r accesslog.Record, from, to *time.Time, conditions map[string]string) (bool, error) {
	return New(from, to, conditions).Accepts(r)
}

// InRange reports whether t is strictly after from and strictly before to.
// Nil bounds are open.
func InRange(t time.Time, from, to *time.Time) bool {
	if from != nil && !t.After(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
