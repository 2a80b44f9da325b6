//go:build !gmp

package numeric

import (
	"context"
	"math/big"
)

// multiplyRange computes 2·3·…·n with math/big.
func multiplyRange(ctx context.Context, n int64) (*big.Int, error) {
	acc := big.NewInt(1)
	factor := new(big.Int)
	for i := int64(2); i <= n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		acc.Mul(acc, factor.SetInt64(i))
	}
	return acc, nil
}
