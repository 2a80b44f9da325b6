package format

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{0, "0µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2*time.Minute + 3*time.Second, "2m3s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := FormatExecutionDuration(tt.in); got != tt.want {
				t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatReal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"integer", 4, "4"},
		{"negative", -27, "-27"},
		{"fraction", 1.5, "1.5"},
		{"sqrt2", math.Sqrt2, "1.4142135623730951"},
		{"small", 0.0001, "0.0001"},
		{"tiny", 1e-7, "1e-07"},
		{"large", 1e20, "100000000000000000000"},
		{"huge", 1e21, "1e+21"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "Infinity"},
		{"neg inf", math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatReal(tt.in); got != tt.want {
				t.Errorf("FormatReal(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTemperature(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{22, "22.0"},
		{293.15, "293.15"},
		{71.6, "71.6"},
		{-5, "-5.0"},
	}
	for _, tt := range tests {
		if got := FormatTemperature(tt.in); got != tt.want {
			t.Errorf("FormatTemperature(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateDigits(t *testing.T) {
	t.Parallel()
	short := "120"
	if got := TruncateDigits(short, 20); got != short {
		t.Errorf("short string changed: %q", got)
	}

	long := strings.Repeat("1", 50) + strings.Repeat("0", 50)
	got := TruncateDigits(long, 21)
	if !strings.HasPrefix(got, "1111111111…") {
		t.Errorf("unexpected head: %q", got)
	}
	if !strings.Contains(got, "…0000000000 (100 digits)") {
		t.Errorf("unexpected tail: %q", got)
	}
}
