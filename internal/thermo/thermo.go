// Package thermo gives comfort advice for a room temperature.
package thermo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/format"
)

// MsgIncorrect is returned for unparsable input.
const MsgIncorrect = "Incorrect input. Please try again."

// Season selects the comfort band.
type Season string

const (
	Winter Season = "w"
	Summer Season = "s"
)

// Unit is the display scale. Input is always read in Celsius.
type Unit string

const (
	Celsius    Unit = "C"
	Kelvin     Unit = "K"
	Fahrenheit Unit = "F"
)

// Range is a closed comfort band in one unit.
type Range struct {
	Low, High float64
}

// ComfortRange returns the band in Celsius: 20–22 in winter, 22–25 in summer.
func ComfortRange(s Season) Range {
	if s == Winter {
		return Range{20, 22}
	}
	return Range{22, 25}
}

// Convert maps a Celsius value to u.
func Convert(celsius float64, u Unit) float64 {
	switch u {
	case Kelvin:
		return celsius + 273.15
	case Fahrenheit:
		return celsius*9/5 + 32
	default:
		return celsius
	}
}

// Report is the outcome of Check, expressed in the requested unit.
type Report struct {
	Temperature float64
	Unit        Unit
	Comfort     Range
	// Delta is positive when the room must warm up, negative when it must
	// cool down and zero inside the band.
	Delta float64
}

// Check compares celsius with the season's band, both converted to u.
func Check(celsius float64, season Season, u Unit) Report {
	band := ComfortRange(season)
	r := Report{
		Temperature: Convert(celsius, u),
		Unit:        u,
		Comfort:     Range{Convert(band.Low, u), Convert(band.High, u)},
	}
	switch {
	case r.Temperature < r.Comfort.Low:
		r.Delta = r.Comfort.Low - r.Temperature
	case r.Temperature > r.Comfort.High:
		r.Delta = r.Comfort.High - r.Temperature
	}
	return r
}

// Advice is the last line of the report. Degrees are rounded half away
// from zero.
func (r Report) Advice() string {
	switch {
	case r.Delta > 0:
		return fmt.Sprintf("Please, make it warmer by %d degrees.", int(math.Round(r.Delta)))
	case r.Delta < 0:
		return fmt.Sprintf("Please, make it cooler by %d degrees.", int(math.Round(-r.Delta)))
	default:
		return "The temperature is comfortable."
	}
}

func (r Report) String() string {
	return fmt.Sprintf("The temperature is %s %s.\nThe comfortable temperature is from %s to %s %s.\n%s",
		format.FormatTemperature(r.Temperature), r.Unit,
		format.FormatTemperature(r.Comfort.Low), format.FormatTemperature(r.Comfort.High), r.Unit,
		r.Advice())
}

// Parse validates the three text inputs. The unit defaults to Celsius when
// blank; an unknown unit is rejected.
func Parse(value, unit, season string) (float64, Unit, Season, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, "", "", apperrors.NewValidationError("temperature", "%q is not a number", value)
	}
	s := Season(strings.ToLower(strings.TrimSpace(season)))
	if s != Winter && s != Summer {
		return 0, "", "", apperrors.NewValidationError("season", "want w or s, got %q", season)
	}
	u := Unit(strings.ToUpper(strings.TrimSpace(unit)))
	switch u {
	case "":
		u = Celsius
	case Celsius, Kelvin, Fahrenheit:
	default:
		return 0, "", "", apperrors.NewValidationError("unit", "want C, K or F, got %q", unit)
	}
	return t, u, s, nil
}

// Describe parses the inputs and returns the text shown to the user.
func Describe(value, unit, season string) string {
	t, u, s, err := Parse(value, unit, season)
	if err != nil {
		return MsgIncorrect
	}
	return Check(t, s, u).String()
}
