// SPDX-License-Identifier: MPL-2.0

// Package taskenv implements the cycle-relative task-environment resolver.
//
// Resolution is a two-phase pipeline: pure string templating substitutes the
// computed cycle points into each glob pattern, then the concrete pattern is
// expanded against the run root on the filesystem. Only the second phase
// touches the filesystem, and nothing is ever written.
package taskenv

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidTemplate is the sentinel error wrapped by InvalidTemplateError.
	ErrInvalidTemplate = errors.New("invalid path template")
	// ErrDuplicateVariable is the sentinel error wrapped by DuplicateVariableError.
	ErrDuplicateVariable = errors.New("duplicate variable")
	// ErrNoPathMatch is the sentinel error wrapped by NoPathMatchError.
	ErrNoPathMatch = errors.New("no path match")

	// envNamePattern restricts template names to portable shell identifiers.
	envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// Template pairs an environment variable name with a glob pattern. The
	// pattern may contain {point} (the final resolution point) and {point[N]}
	// (the N-th entry of the offset history, 0 = base cycle point)
	// placeholders, substituted in directory form before expansion.
	Template struct {
		Name    string
		Pattern string
	}

	// InvalidTemplateError is returned for a malformed NAME=GLOB value or a
	// malformed placeholder. It wraps ErrInvalidTemplate for errors.Is()
	// compatibility.
	InvalidTemplateError struct {
		Value  string
		Reason string
	}

	// DuplicateVariableError is returned when two templates bind the same
	// variable name. It wraps ErrDuplicateVariable for errors.Is()
	// compatibility.
	DuplicateVariableError struct {
		Name string
	}

	// NoPathMatchError is returned when a rendered pattern matches nothing
	// under the run root and empty bindings are not permitted. It wraps
	// ErrNoPathMatch for errors.Is() compatibility.
	NoPathMatchError struct {
		Name    string
		Pattern string
	}
)

// Error implements the error interface.
func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid path template %q: %s", e.Value, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidTemplateError) Unwrap() error {
	return ErrInvalidTemplate
}

// Error implements the error interface.
func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("duplicate variable %q: each path template must bind a distinct name", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *DuplicateVariableError) Unwrap() error {
	return ErrDuplicateVariable
}

// Error implements the error interface.
func (e *NoPathMatchError) Error() string {
	return fmt.Sprintf("no path match for %s: pattern %q matched nothing", e.Name, e.Pattern)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *NoPathMatchError) Unwrap() error {
	return ErrNoPathMatch
}

// ParseTemplate parses a NAME=GLOB value into a Template.
func ParseTemplate(value string) (Template, error) {
	name, pattern, ok := strings.Cut(value, "=")
	if !ok {
		return Template{}, &InvalidTemplateError{Value: value, Reason: "expected NAME=GLOB"}
	}
	if !envNamePattern.MatchString(name) {
		return Template{}, &InvalidTemplateError{
			Value:  value,
			Reason: fmt.Sprintf("%q is not a valid environment variable name", name),
		}
	}
	if pattern == "" {
		return Template{}, &InvalidTemplateError{Value: value, Reason: "glob pattern is empty"}
	}
	return Template{Name: name, Pattern: pattern}, nil
}

// ParseTemplates parses a list of NAME=GLOB values, preserving order, and
// rejects duplicate names so the failure surfaces before any filesystem
// access.
func ParseTemplates(values []string) ([]Template, error) {
	if len(values) == 0 {
		return nil, nil
	}
	templates := make([]Template, 0, len(values))
	for _, v := range values {
		tmpl, err := ParseTemplate(v)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	if err := ValidateDistinct(templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// ValidateDistinct checks that no two templates bind the same variable name.
func ValidateDistinct(templates []Template) error {
	seen := make(map[string]struct{}, len(templates))
	for _, tmpl := range templates {
		if _, dup := seen[tmpl.Name]; dup {
			return &DuplicateVariableError{Name: tmpl.Name}
		}
		seen[tmpl.Name] = struct{}{}
	}
	return nil
}
