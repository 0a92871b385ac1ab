// Package filter drops input atoms matching user-supplied patterns.
package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"datalake/internal/domain"
)

// ExcludeFilter excludes atoms matching any of its regex patterns.
type ExcludeFilter struct {
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// NewExcludeFilter creates a new exclude filter with the given patterns.
func NewExcludeFilter(patterns []string, logger *slog.Logger) (*ExcludeFilter, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no patterns provided for exclude filter")
	}

	compiledPatterns := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		compiledPatterns = append(compiledPatterns, compiled)
	}

	return &ExcludeFilter{
		patterns: compiledPatterns,
		logger:   logger,
	}, nil
}

// ShouldExclude returns true if the atom value matches any exclude pattern.
func (f *ExcludeFilter) ShouldExclude(value string) bool {
	for _, pattern := range f.patterns {
		if pattern.MatchString(value) {
			f.logger.Debug("Atom excluded", "atom", value, "pattern", pattern.String())
			return true
		}
	}
	return false
}

// New returns an ExcludeFilter for patterns, or a NoOpFilter when there are none.
func New(patterns []string, logger *slog.Logger) (domain.AtomFilter, error) {
	if len(patterns) == 0 {
		return NewNoOpFilter(), nil
	}
	f, err := NewExcludeFilter(patterns, logger)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Apply returns the values f keeps, in order.
func Apply(f domain.AtomFilter, values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if !f.ShouldExclude(v) {
			kept = append(kept, v)
		}
	}
	return kept
}
