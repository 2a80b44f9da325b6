// Package digits lists the numbers formed by the leading digits of an
// integer and marks the prime ones.
package digits

import (
	"strconv"
	"strings"

	apperrors "github.com/agbru/numcalc/internal/errors"
)

// MsgWrongInput is returned for anything but a positive integer.
const MsgWrongInput = "Wrong input! Only positive integers are allowed."

// Prefix is one number built from the leading digits.
type Prefix struct {
	Value uint64
	Prime bool
}

// Prefixes returns every number formed by the first 1..k digits of n,
// reading the digits right to left when reversed is set.
func Prefixes(n int64, reversed bool) ([]Prefix, error) {
	if n <= 0 {
		return nil, apperrors.NewValidationError("n", "%d is not a positive integer", n)
	}
	digits := []byte(strconv.FormatInt(n, 10))
	if reversed {
		for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
			digits[i], digits[j] = digits[j], digits[i]
		}
	}

	out := make([]Prefix, 0, len(digits))
	var current uint64
	for _, d := range digits {
		current = current*10 + uint64(d-'0')
		out = append(out, Prefix{Value: current, Prime: IsPrime(current)})
	}
	return out, nil
}

// IsPrime is trial division up to √n.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := uint64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// Describe parses s and renders one line per prefix, "N - prime" or "N".
func Describe(s string, reversed bool) string {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return MsgWrongInput
	}
	prefixes, err := Prefixes(n, reversed)
	if err != nil {
		return MsgWrongInput
	}
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString(strconv.FormatUint(p.Value, 10))
		if p.Prime {
			b.WriteString(" - prime")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
