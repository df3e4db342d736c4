// SPDX-License-Identifier: MPL-2.0

package cyclepoint

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDuration is the sentinel error wrapped by InvalidDurationError.
	ErrInvalidDuration = errors.New("invalid duration")

	// durationPattern captures the ISO 8601 duration components, with an
	// optional leading sign: [+-]PnYnMnWnDTnHnMnS. Each component is
	// optional but the designator order is fixed.
	durationPattern = regexp.MustCompile(
		`^([+-])?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?` +
			`(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)
)

type (
	// Duration is an immutable ISO 8601 duration. Calendar components
	// (years, months, weeks, days) are kept separate from clock components
	// (hours, minutes, seconds) because they apply to a cycle point through
	// calendar arithmetic rather than as a fixed number of nanoseconds.
	Duration struct {
		Years   int
		Months  int
		Weeks   int
		Days    int
		Hours   int
		Minutes int
		Seconds int

		// Negative marks a duration parsed with a leading minus sign.
		Negative bool
	}

	// InvalidDurationError is returned when a value cannot be parsed as an
	// ISO 8601 duration. It wraps ErrInvalidDuration for errors.Is()
	// compatibility.
	InvalidDurationError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q: not an ISO 8601 duration", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidDurationError) Unwrap() error {
	return ErrInvalidDuration
}

// ParseDuration parses an ISO 8601 duration such as PT12H, P1D, or
// P1Y2M3DT4H5M6S. A leading + or - sign is accepted; minus yields a negative
// duration. A bare "P" or "PT" with no components is rejected.
func ParseDuration(value string) (Duration, error) {
	m := durationPattern.FindStringSubmatch(value)
	if m == nil {
		return Duration{}, &InvalidDurationError{Value: value}
	}

	// The pattern matches "P" and "PT" with every component group empty;
	// require at least one component.
	hasComponent := false
	for _, g := range m[2:] {
		if g != "" {
			hasComponent = true
			break
		}
	}
	if !hasComponent {
		return Duration{}, &InvalidDurationError{Value: value}
	}

	d := Duration{
		Years:    atoiComponent(m[2]),
		Months:   atoiComponent(m[3]),
		Weeks:    atoiComponent(m[4]),
		Days:     atoiComponent(m[5]),
		Hours:    atoiComponent(m[6]),
		Minutes:  atoiComponent(m[7]),
		Seconds:  atoiComponent(m[8]),
		Negative: m[1] == "-",
	}
	return d, nil
}

// atoiComponent converts a matched component group, treating an empty group
// as zero. The pattern guarantees the group is all digits when non-empty.
func atoiComponent(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// IsZero reports whether every component of d is zero.
func (d Duration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Weeks == 0 && d.Days == 0 &&
		d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// Negated returns a copy of d with the sign flipped.
func (d Duration) Negated() Duration {
	d.Negative = !d.Negative
	return d
}

// clock returns the clock portion of d as a time.Duration.
func (d Duration) clock() time.Duration {
	return time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
}

// addTo applies d to t in the given direction (+1 or -1), honoring
// d.Negative. Calendar components go through time.AddDate so month and year
// boundaries follow the calendar; the clock portion is exact elapsed time.
func (d Duration) addTo(t time.Time, sign int) time.Time {
	if d.Negative {
		sign = -sign
	}
	t = t.AddDate(sign*d.Years, sign*d.Months, sign*(d.Weeks*7+d.Days))
	return t.Add(time.Duration(sign) * d.clock())
}

// String renders the canonical ISO 8601 form, e.g. P1DT2H. The zero duration
// renders as PT0S.
func (d Duration) String() string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	writeComponent(&b, d.Years, 'Y')
	writeComponent(&b, d.Months, 'M')
	writeComponent(&b, d.Weeks, 'W')
	writeComponent(&b, d.Days, 'D')

	if d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 || d.IsZero() {
		b.WriteByte('T')
		writeComponent(&b, d.Hours, 'H')
		writeComponent(&b, d.Minutes, 'M')
		if d.Seconds != 0 || d.IsZero() {
			fmt.Fprintf(&b, "%dS", d.Seconds)
		}
	}

	return b.String()
}

func writeComponent(b *strings.Builder, n int, designator byte) {
	if n == 0 {
		return
	}
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(designator)
}
