// SPDX-License-Identifier: MPL-2.0

package cyclepoint

import "strings"

// OffsetSpec pairs a direction with a Duration. A sequence of OffsetSpecs
// applies cumulatively to a cycle point, each producing a new point from the
// previous one.
type OffsetSpec struct {
	// Subtract selects the direction: true moves the point into the past.
	Subtract bool
	// Duration is the magnitude of the offset.
	Duration Duration
}

// ParseOffset parses a cycle-offset value: an ISO 8601 duration with an
// optional leading sign, e.g. +PT12H, -P1D, PT6H. A missing sign means add.
// A signed duration body (e.g. "+-PT1H") is rejected by the duration parse.
func ParseOffset(value string) (OffsetSpec, error) {
	body := value
	subtract := false
	switch {
	case strings.HasPrefix(value, "+"):
		body = value[1:]
	case strings.HasPrefix(value, "-"):
		body = value[1:]
		subtract = true
	}

	// The sign belongs to the offset; a second sign on the duration body
	// (e.g. "+-PT1H") is rejected.
	if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		return OffsetSpec{}, &InvalidDurationError{Value: value}
	}

	d, err := ParseDuration(body)
	if err != nil {
		// Report the original value, sign included.
		return OffsetSpec{}, &InvalidDurationError{Value: value}
	}

	return OffsetSpec{Subtract: subtract, Duration: d}, nil
}

// ParseOffsets parses a list of cycle-offset values, preserving order.
func ParseOffsets(values []string) ([]OffsetSpec, error) {
	if len(values) == 0 {
		return nil, nil
	}
	specs := make([]OffsetSpec, 0, len(values))
	for _, v := range values {
		spec, err := ParseOffset(v)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// String renders the offset with its explicit sign, e.g. +PT12H or -P1D.
func (s OffsetSpec) String() string {
	if s.Subtract {
		return "-" + s.Duration.String()
	}
	return "+" + s.Duration.String()
}
