package geometry

import (
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"external tangency", "0 0 1 2 0 1", MsgCoincide},
		{"overlap", "0 0 2 3 0 2", MsgIntersect},
		{"nested", "0 0 5 1 0 1", MsgInside},
		{"same circle", "1 1 2 1 1 2", MsgInside},
		{"internal tangency", "0 0 3 1 0 2", MsgInside},
		{"far apart", "0 0 1 10 10 1", MsgNoIntersect},
		{"zero radius", "0 0 0 1 1 1", MsgInvalid},
		{"negative radius", "0 0 1 1 1 -1", MsgInvalid},
		{"not a number", "a 0 1 1 1 1", MsgInvalid},
		{"too few", "0 0 1", MsgInvalid},
		{"infinite", "Inf 0 1 0 0 1", MsgInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Describe(strings.Fields(tt.input)); got != tt.want {
				t.Errorf("Describe(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify_Symmetric(t *testing.T) {
	t.Parallel()
	pairs := [][2]Circle{
		{{0, 0, 1}, {0.5, 0, 3}},
		{{0, 0, 1}, {1.5, 0, 1}},
		{{-4, 2, 1}, {4, -2, 2}},
	}
	for _, p := range pairs {
		if Classify(p[0], p[1]) != Classify(p[1], p[0]) {
			t.Errorf("Classify is not symmetric for %+v", p)
		}
	}
}
