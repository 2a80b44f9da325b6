// Package geometry classifies how two circles in the plane relate.
package geometry

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/agbru/numcalc/internal/errors"
)

// Result strings.
const (
	MsgInvalid     = "Invalid input detected. Please, try again."
	MsgCoincide    = "The circles coincide"
	MsgInside      = "One circle is inside the other"
	MsgIntersect   = "The circles intersect"
	MsgNoIntersect = "The circles do not intersect"
)

const (
	touchTolerance  = 1e-9
	circleFieldSize = 6
)

// Circle is a centre and a strictly positive radius.
type Circle struct {
	X, Y, R float64
}

// Relation is the outcome of Classify.
type Relation int

const (
	Coincide Relation = iota
	Inside
	Intersect
	Disjoint
)

func (r Relation) String() string {
	switch r {
	case Coincide:
		return MsgCoincide
	case Inside:
		return MsgInside
	case Intersect:
		return MsgIntersect
	default:
		return MsgNoIntersect
	}
}

// Classify compares the centre distance d with the radii. Tangency from
// outside (d == r1+r2 within touchTolerance) reports Coincide; containment
// is checked before plain intersection so nested circles are reported as
// such.
func Classify(a, b Circle) Relation {
	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	switch {
	case math.Abs(d-(a.R+b.R)) < touchTolerance:
		return Coincide
	case math.Abs(a.R-b.R) >= d:
		return Inside
	case d <= a.R+b.R:
		return Intersect
	default:
		return Disjoint
	}
}

// Parse reads "x1 y1 r1 x2 y2 r2". Radii must be > 0.
func Parse(fields []string) (Circle, Circle, error) {
	if len(fields) != circleFieldSize {
		return Circle{}, Circle{}, apperrors.NewValidationError("circles", "want %d numbers, got %d", circleFieldSize, len(fields))
	}
	var v [circleFieldSize]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return Circle{}, Circle{}, apperrors.NewValidationError("circles", "%q is not a number", f)
		}
		v[i] = x
	}
	a, b := Circle{v[0], v[1], v[2]}, Circle{v[3], v[4], v[5]}
	if a.R <= 0 || b.R <= 0 {
		return Circle{}, Circle{}, apperrors.NewValidationError("circles", "radii must be positive")
	}
	return a, b, nil
}

// Describe parses fields and returns the message shown to the user.
func Describe(fields []string) string {
	a, b, err := Parse(fields)
	if err != nil {
		return MsgInvalid
	}
	return Classify(a, b).String()
}
