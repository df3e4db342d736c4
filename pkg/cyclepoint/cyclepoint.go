// SPDX-License-Identifier: MPL-2.0

// Package cyclepoint provides the temporal types of the resolver: cycle
// points (absolute instants a workflow graph is instantiated at), ISO 8601
// durations, and signed offset specifications combining the two.
//
// All values are immutable once constructed; arithmetic always produces new
// values.
package cyclepoint

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCyclePoint is the sentinel error wrapped by InvalidCyclePointError.
	ErrInvalidCyclePoint = errors.New("invalid cycle point")

	// pointLayouts are the accepted ISO 8601 timestamp forms, tried in order.
	// Extended forms (with separators) come first since schedulers typically
	// hand those over; basic forms cover run-directory style values like
	// 20130101T1200Z. "Z07:00"/"Z0700" match both a literal Z and a numeric
	// zone offset.
	pointLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"20060102T150405Z0700",
		"20060102T1504Z0700",
		"20060102T15Z0700",
		"20060102T150405",
		"20060102T1504",
		"20060102T15",
		"2006-01-02",
		"20060102",
	}
)

type (
	// CyclePoint is an absolute point in time at which a workflow graph is
	// instantiated. The zero value is not a valid cycle point; construct one
	// via Parse or FromTime.
	CyclePoint struct {
		t time.Time
	}

	// InvalidCyclePointError is returned when a value cannot be parsed as an
	// ISO 8601 timestamp. It wraps ErrInvalidCyclePoint for errors.Is()
	// compatibility.
	InvalidCyclePointError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidCyclePointError) Error() string {
	return fmt.Sprintf("invalid cycle point %q: not an ISO 8601 timestamp", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidCyclePointError) Unwrap() error {
	return ErrInvalidCyclePoint
}

// Parse parses an ISO 8601 timestamp into a CyclePoint. Zone-less forms are
// interpreted in UTC when utc is true, otherwise in the local zone. Forms
// carrying an explicit zone keep it unless utc is true, in which case the
// instant is converted to UTC.
func Parse(value string, utc bool) (CyclePoint, error) {
	if value == "" {
		return CyclePoint{}, &InvalidCyclePointError{Value: value}
	}

	loc := time.Local
	if utc {
		loc = time.UTC
	}

	for _, layout := range pointLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		if utc {
			t = t.UTC()
		}
		return CyclePoint{t: t}, nil
	}

	return CyclePoint{}, &InvalidCyclePointError{Value: value}
}

// FromTime wraps an existing time.Time as a CyclePoint.
func FromTime(t time.Time) CyclePoint {
	return CyclePoint{t: t}
}

// Time returns the underlying time.Time.
func (p CyclePoint) Time() time.Time {
	return p.t
}

// IsZero reports whether p is the zero (unconstructed) cycle point.
func (p CyclePoint) IsZero() bool {
	return p.t.IsZero()
}

// Equal reports whether p and q denote the same instant.
func (p CyclePoint) Equal(q CyclePoint) bool {
	return p.t.Equal(q.t)
}

// Add returns a new CyclePoint advanced by d. Calendar components (years,
// months, weeks, days) apply via calendar arithmetic; clock components apply
// as exact elapsed time. p itself is never modified.
func (p CyclePoint) Add(d Duration) CyclePoint {
	return CyclePoint{t: d.addTo(p.t, 1)}
}

// Sub returns a new CyclePoint moved back by d.
func (p CyclePoint) Sub(d Duration) CyclePoint {
	return CyclePoint{t: d.addTo(p.t, -1)}
}

// Offset applies an OffsetSpec, adding or subtracting its duration per the
// spec's sign.
func (p CyclePoint) Offset(spec OffsetSpec) CyclePoint {
	if spec.Subtract {
		return p.Sub(spec.Duration)
	}
	return p.Add(spec.Duration)
}

// String renders the canonical extended form, e.g. 2013-01-01T12:00:00Z.
func (p CyclePoint) String() string {
	return p.t.Format("2006-01-02T15:04:05Z07:00")
}

// DirName renders the compact form used for run-directory names, e.g.
// 20130101T1200Z. Seconds are included only when non-zero so directory names
// stay stable across the common whole-minute cycle points.
func (p CyclePoint) DirName() string {
	if p.t.Second() != 0 {
		return p.t.Format("20060102T150405Z0700")
	}
	return p.t.Format("20060102T1504Z0700")
}
