package numeric

// ─────────────────────────────────────────────────────────────────────────────
// Limits and Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MaxFactorialInput is the largest n accepted by Factorial.
	MaxFactorialInput = 5000

	// DefaultRounds is the number of Miller-Rabin witnesses drawn by the
	// primality job. The false-positive probability is at most 4^-rounds.
	DefaultRounds = 20

	// cancelCheckInterval is the number of factorial multiplications between
	// two context checks.
	cancelCheckInterval = 64

	// cooperativeExpBits is the modulus size (in bits) above which modular
	// exponentiation switches from big.Int.Exp to a square-and-multiply loop
	// that polls the context. A single big.Int.Exp on a modulus this large
	// can run for seconds and cannot be interrupted.
	cooperativeExpBits = 2048

	// expCheckInterval is the number of exponent bits processed between two
	// context checks in the cooperative exponentiation.
	expCheckInterval = 16
)
