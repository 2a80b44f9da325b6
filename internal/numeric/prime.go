package numeric

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	mrand "math/rand"
	"sync"
)

var (
	one = big.NewInt(1)

	// DeterministicBound is the first integer for which the witness set
	// {2, 3, 5, ..., 41} stops being sufficient. IsPrime is exact below it.
	DeterministicBound, _ = new(big.Int).SetString("3317044064679887385961981", 10)

	deterministicWitnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

	// ErrBeyondDeterministicBound is returned by IsPrime for n >= DeterministicBound.
	ErrBeyondDeterministicBound = errors.New("numeric: input exceeds the deterministic Miller-Rabin bound")
)

// WitnessSource draws Miller-Rabin witnesses.
type WitnessSource interface {
	// Witness returns a value uniformly distributed in [1, n-1].
	Witness(n *big.Int) *big.Int
}

// CryptoSource draws witnesses from crypto/rand. It is safe for concurrent use.
type CryptoSource struct{}

// Witness implements WitnessSource.
func (CryptoSource) Witness(n *big.Int) *big.Int {
	span := new(big.Int).Sub(n, one)
	a, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand does not fail on supported platforms; fall back to 2.
		return big.NewInt(2)
	}
	return a.Add(a, one)
}

// SeededSource draws witnesses from a seeded math/rand generator so a test
// run can be replayed. It is safe for concurrent use.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a reproducible witness source.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Witness implements WitnessSource.
func (s *SeededSource) Witness(n *big.Int) *big.Int {
	span := new(big.Int).Sub(n, one)
	s.mu.Lock()
	a := new(big.Int).Rand(s.rng, span)
	s.mu.Unlock()
	return a.Add(a, one)
}

// IsProbablePrime runs the Miller-Rabin test on n with rounds random
// witnesses drawn from src (CryptoSource when nil).
//
// n <= 1 is not prime, 2 and 3 are, other even numbers are not. A false
// result is always correct; a true result is wrong with probability at most
// 4^-rounds. ctx is checked between rounds, between squarings and during
// exponentiation of large moduli; on cancellation ctx.Err() is returned.
func IsProbablePrime(ctx context.Context, n *big.Int, rounds int, src WitnessSource) (bool, error) {
	if prime, decided := trivialPrimality(n); decided {
		return prime, nil
	}
	if src == nil {
		src = CryptoSource{}
	}

	t := newMillerRabin(n)
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		composite, err := t.isWitness(ctx, src.Witness(n))
		if err != nil {
			return false, err
		}
		if composite {
			return false, nil
		}
	}
	return true, nil
}

// IsPrime is the deterministic variant of IsProbablePrime. It uses the
// first thirteen primes as witnesses and is exact for n < DeterministicBound.
func IsPrime(ctx context.Context, n *big.Int) (bool, error) {
	if prime, decided := trivialPrimality(n); decided {
		return prime, nil
	}
	if n.Cmp(DeterministicBound) >= 0 {
		return false, ErrBeyondDeterministicBound
	}

	t := newMillerRabin(n)
	a := new(big.Int)
	for _, w := range deterministicWitnesses {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		a.SetInt64(w)
		a.Mod(a, n)
		if a.Sign() == 0 {
			// n is one of the witnesses.
			return true, nil
		}
		composite, err := t.isWitness(ctx, a)
		if err != nil {
			return false, err
		}
		if composite {
			return false, nil
		}
	}
	return true, nil
}

func trivialPrimality(n *big.Int) (prime, decided bool) {
	switch {
	case n.Cmp(one) <= 0:
		return false, true
	case n.Cmp(big.NewInt(3)) <= 0:
		return true, true
	case n.Bit(0) == 0:
		return false, true
	}
	return false, false
}

// millerRabin holds the decomposition n-1 = d·2^s for an odd n > 3.
type millerRabin struct {
	n       *big.Int
	nMinus1 *big.Int
	d       *big.Int
	s       int
}

func newMillerRabin(n *big.Int) *millerRabin {
	nMinus1 := new(big.Int).Sub(n, one)
	s := int(nMinus1.TrailingZeroBits())
	d := new(big.Int).Rsh(nMinus1, uint(s))
	return &millerRabin{n: n, nMinus1: nMinus1, d: d, s: s}
}

// isWitness reports whether a proves n composite.
func (t *millerRabin) isWitness(ctx context.Context, a *big.Int) (bool, error) {
	x, err := modExp(ctx, a, t.d, t.n)
	if err != nil {
		return false, err
	}
	if x.Cmp(one) == 0 || x.Cmp(t.nMinus1) == 0 {
		return false, nil
	}
	for r := 1; r < t.s; r++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		x.Mul(x, x).Mod(x, t.n)
		if x.Cmp(t.nMinus1) == 0 {
			return false, nil
		}
		if x.Cmp(one) == 0 {
			return true, nil
		}
	}
	return true, nil
}

// modExp returns base^exp mod m. Moduli above cooperativeExpBits use a
// square-and-multiply loop that polls ctx.
func modExp(ctx context.Context, base, exp, m *big.Int) (*big.Int, error) {
	if m.BitLen() <= cooperativeExpBits {
		return new(big.Int).Exp(base, exp, m), nil
	}

	b := new(big.Int).Mod(base, m)
	result := big.NewInt(1)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		if i%expCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		result.Mul(result, result).Mod(result, m)
		if exp.Bit(i) == 1 {
			result.Mul(result, b).Mod(result, m)
		}
	}
	return result, nil
}
