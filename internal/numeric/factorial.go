package numeric

import (
	"context"
	"math/big"

	apperrors "github.com/agbru/numcalc/internal/errors"
)

// Factorial returns n! exactly.
//
// Inputs outside [0, MaxFactorialInput] are rejected with an
// apperrors.ValidationError instead of being computed. The multiplication
// loop checks ctx every cancelCheckInterval steps and returns ctx.Err()
// once it is canceled.
func Factorial(ctx context.Context, n int64) (*big.Int, error) {
	if n < 0 || n > MaxFactorialInput {
		return nil, apperrors.NewValidationError("n", "factorial is defined here for 0 <= n <= %d, got %d", MaxFactorialInput, n)
	}
	if n < 2 {
		return big.NewInt(1), nil
	}
	return multiplyRange(ctx, n)
}

// FactorialString parses s as a base-10 integer and returns the decimal
// representation of its factorial.
func FactorialString(ctx context.Context, s string) (string, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "", apperrors.NewValidationError("n", "%q is not an integer", s)
	}
	if !n.IsInt64() {
		return "", apperrors.NewValidationError("n", "factorial is defined here for 0 <= n <= %d", MaxFactorialInput)
	}
	f, err := Factorial(ctx, n.Int64())
	if err != nil {
		return "", err
	}
	return f.String(), nil
}
