package numeric

import "math"

// SquareRoot returns √x, or NaN for negative x.
func SquareRoot(x float64) float64 {
	if x < 0 {
		return math.NaN()
	}
	return math.Sqrt(x)
}

// CubeRoot returns ∛x for every real x.
func CubeRoot(x float64) float64 { return math.Cbrt(x) }

// Log10 returns the decimal logarithm of x, or NaN when x <= 0.
func Log10(x float64) float64 {
	if x <= 0 {
		return math.NaN()
	}
	return math.Log10(x)
}

// NaturalLog returns ln x, or NaN when x <= 0.
func NaturalLog(x float64) float64 {
	if x <= 0 {
		return math.NaN()
	}
	return math.Log(x)
}

// Square returns x².
func Square(x float64) float64 { return x * x }

// Cube returns x³.
func Cube(x float64) float64 { return x * x * x }
