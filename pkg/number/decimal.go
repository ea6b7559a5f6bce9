package number

import (
	"math/big"

	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// Bps basis points as a fraction, 500 => 0.05
func Bps(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -4)
}

// Ratio a/b truncated to precision, zero when b is zero
func Ratio(a, b uint64, precision int32) decimal.Decimal {
	if b == 0 {
		return decimal.Zero
	}

	x := decimal.NewFromBigInt(new(big.Int).SetUint64(a), 0)
	y := decimal.NewFromBigInt(new(big.Int).SetUint64(b), 0)
	return x.DivRound(y, precision+1).Truncate(precision)
}
