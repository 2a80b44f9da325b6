package numeric

import (
	"context"
	"math/big"
	"testing"
)

// FuzzIsProbablePrime cross-checks both Miller-Rabin variants against
// math/big on 64-bit inputs.
func FuzzIsProbablePrime(f *testing.F) {
	for _, seed := range []uint64{0, 1, 2, 3, 4, 561, 2047, 7919, 3215031751, 18446744073709551557} {
		f.Add(seed)
	}

	src := NewSeededSource(99)
	f.Fuzz(func(t *testing.T, v uint64) {
		n := new(big.Int).SetUint64(v)
		want := n.ProbablyPrime(0)

		got, err := IsPrime(context.Background(), n)
		if err != nil {
			t.Fatalf("IsPrime(%d) error: %v", v, err)
		}
		if got != want {
			t.Fatalf("IsPrime(%d) = %v, want %v", v, got, want)
		}

		probable, err := IsProbablePrime(context.Background(), n, DefaultRounds, src)
		if err != nil {
			t.Fatalf("IsProbablePrime(%d) error: %v", v, err)
		}
		if want && !probable {
			t.Fatalf("prime %d reported composite", v)
		}
		if !want && probable {
			t.Fatalf("composite %d reported prime", v)
		}
	})
}
