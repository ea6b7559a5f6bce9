package lending

import (
	"math/bits"

	"lendpool/core"

	"github.com/holiman/uint256"
)

// mulDiv floor(a*b/c) with a 256 bit intermediate
func mulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, core.ErrMathOverflow
	}

	x := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	x.Div(x, uint256.NewInt(c))
	if !x.IsUint64() {
		return 0, core.ErrMathOverflow
	}

	return x.Uint64(), nil
}

// mul a*b, fails when the product does not fit in 64 bits
func mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, core.ErrMathOverflow
	}

	return lo, nil
}

// Add checked a+b
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, core.ErrMathOverflow
	}

	return sum, nil
}

// Sub checked a-b
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, core.ErrMathOverflow
	}

	return diff, nil
}
