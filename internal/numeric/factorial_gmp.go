//go:build gmp

package numeric

import (
	"context"
	"math/big"

	"github.com/ncw/gmp"
)

// multiplyRange computes 2·3·…·n with GMP and converts the product back to
// math/big. Built with -tags gmp (requires libgmp).
func multiplyRange(ctx context.Context, n int64) (*big.Int, error) {
	acc := gmp.NewInt(1)
	factor := new(gmp.Int)
	for i := int64(2); i <= n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		acc.Mul(acc, factor.SetInt64(i))
	}
	return new(big.Int).SetBytes(acc.Bytes()), nil
}
