// SPDX-License-Identifier: MPL-2.0

package cyclepoint_test

import (
	"errors"
	"testing"

	"cycenv-cli/pkg/cyclepoint"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  cyclepoint.Duration
	}{
		{
			name:  "hours only",
			value: "PT12H",
			want:  cyclepoint.Duration{Hours: 12},
		},
		{
			name:  "single day",
			value: "P1D",
			want:  cyclepoint.Duration{Days: 1},
		},
		{
			name:  "weeks",
			value: "P2W",
			want:  cyclepoint.Duration{Weeks: 2},
		},
		{
			name:  "full calendar and clock",
			value: "P1Y2M3DT4H5M6S",
			want:  cyclepoint.Duration{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 5, Seconds: 6},
		},
		{
			name:  "leading plus",
			value: "+PT30M",
			want:  cyclepoint.Duration{Minutes: 30},
		},
		{
			name:  "leading minus",
			value: "-P1D",
			want:  cyclepoint.Duration{Days: 1, Negative: true},
		},
		{
			name:  "zero seconds",
			value: "PT0S",
			want:  cyclepoint.Duration{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := cyclepoint.ParseDuration(tt.value)
			if err != nil {
				t.Fatalf("ParseDuration(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"P",
		"PT",
		"12H",
		"PT12",
		"P1D2H",   // clock component without T
		"PT1H30",  // trailing number without designator
		"P-1D",    // inner sign
		"PT1.5H",  // fractional components unsupported
		"1DT2H",   // missing P
	}

	for _, value := range tests {
		if _, err := cyclepoint.ParseDuration(value); !errors.Is(err, cyclepoint.ErrInvalidDuration) {
			t.Errorf("ParseDuration(%q) error = %v, want ErrInvalidDuration", value, err)
		}
	}
}

func TestDuration_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{"PT12H", "PT12H"},
		{"P1D", "P1D"},
		{"P1Y2M3DT4H5M6S", "P1Y2M3DT4H5M6S"},
		{"-PT30M", "-PT30M"},
		{"P2W", "P2W"},
		{"PT0S", "PT0S"},
		{"P0D", "PT0S"}, // zero durations normalize
	}

	for _, tt := range tests {
		d, err := cyclepoint.ParseDuration(tt.value)
		if err != nil {
			t.Fatalf("ParseDuration(%q) error = %v", tt.value, err)
		}
		if got := d.String(); got != tt.want {
			t.Errorf("ParseDuration(%q).String() = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDuration_Negated(t *testing.T) {
	t.Parallel()

	d, err := cyclepoint.ParseDuration("PT6H")
	if err != nil {
		t.Fatalf("ParseDuration() error = %v", err)
	}

	n := d.Negated()
	if !n.Negative || d.Negative {
		t.Errorf("Negated() = %+v (original %+v), want flipped sign on the copy only", n, d)
	}
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value        string
		wantSubtract bool
		wantStr      string
	}{
		{"+PT12H", false, "+PT12H"},
		{"-PT12H", true, "-PT12H"},
		{"PT6H", false, "+PT6H"},
		{"-P1DT6H", true, "-P1DT6H"},
	}

	for _, tt := range tests {
		spec, err := cyclepoint.ParseOffset(tt.value)
		if err != nil {
			t.Fatalf("ParseOffset(%q) error = %v", tt.value, err)
		}
		if spec.Subtract != tt.wantSubtract {
			t.Errorf("ParseOffset(%q).Subtract = %v, want %v", tt.value, spec.Subtract, tt.wantSubtract)
		}
		if got := spec.String(); got != tt.wantStr {
			t.Errorf("ParseOffset(%q).String() = %q, want %q", tt.value, got, tt.wantStr)
		}
	}
}

func TestParseOffset_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{"", "+", "-", "++PT1H", "+-PT1H", "--P1D", "12H"}
	for _, value := range tests {
		if _, err := cyclepoint.ParseOffset(value); !errors.Is(err, cyclepoint.ErrInvalidDuration) {
			t.Errorf("ParseOffset(%q) error = %v, want ErrInvalidDuration", value, err)
		}
	}
}
