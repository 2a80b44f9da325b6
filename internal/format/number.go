package format

import (
	"math"
	"strconv"
	"strings"
)

// plainLimit is the magnitude from which FormatReal switches to exponent form.
const plainLimit = 1e21

// FormatReal renders a float result for display.
//
// Finite values are printed with the shortest representation that round-trips:
// plain decimals for magnitudes in [1e-4, 1e21) and exponent form otherwise.
// NaN and infinities use the words "NaN", "Infinity" and "-Infinity".
func FormatReal(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-4 && abs < plainLimit) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatTemperature renders a temperature the way the comfort screen shows
// it: shortest decimal form, always with a fractional part ("22.0", "71.6").
func FormatTemperature(v float64) string {
	s := FormatReal(v)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// TruncateDigits shortens a long decimal string to head…tail form with the
// digit count, e.g. "40238726…00000 (16326 digits)". Strings no longer than
// max are returned unchanged.
func TruncateDigits(s string, max int) string {
	if max < 8 || len(s) <= max {
		return s
	}
	half := (max - 1) / 2
	return s[:half] + "…" + s[len(s)-half:] + " (" + strconv.Itoa(len(s)) + " digits)"
}
