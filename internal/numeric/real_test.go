package numeric

import (
	"math"
	"testing"
)

func TestRealFunctions(t *testing.T) {
	t.Parallel()
	const eps = 1e-12
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"sqrt of 16", SquareRoot, 16, 4},
		{"sqrt of 2", SquareRoot, 2, math.Sqrt2},
		{"sqrt of 0", SquareRoot, 0, 0},
		{"sqrt of negative", SquareRoot, -4, math.NaN()},
		{"cbrt of 27", CubeRoot, 27, 3},
		{"cbrt of negative", CubeRoot, -8, -2},
		{"log10 of 1000", Log10, 1000, 3},
		{"log10 of 0", Log10, 0, math.NaN()},
		{"log10 of negative", Log10, -10, math.NaN()},
		{"ln of e", NaturalLog, math.E, 1},
		{"ln of 0", NaturalLog, 0, math.NaN()},
		{"square", Square, -3, 9},
		{"cube", Cube, -3, -27},
		{"cube of fraction", Cube, 0.5, 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.fn(tt.in)
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("got %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
