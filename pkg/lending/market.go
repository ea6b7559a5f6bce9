package lending

import (
	"lendpool/core"

	"github.com/holiman/uint256"
)

const (
	// BasisPoints 100%
	BasisPoints = 10000
	// SecondsPerYear 365 days
	SecondsPerYear = 365 * 24 * 60 * 60
)

var rateDenominator = uint256.NewInt(BasisPoints * SecondsPerYear)

// AccrueInterest advance market borrows to now with simple fixed-rate interest
//
// interest = total_borrows * floor(rate_bps * elapsed / (10000 * seconds_per_year)).
// The factor is truncated before it is applied, so short intervals accrue nothing.
// Deposits are never credited with the interest.
func AccrueInterest(market *core.Market, now int64) error {
	elapsed, err := elapsedSince(market.LastAccrualTime, now)
	if err != nil {
		return err
	}

	if elapsed == 0 {
		return nil
	}

	totalBorrows := market.TotalBorrows
	if totalBorrows > 0 {
		interest, err := Interest(totalBorrows, market.FixedBorrowRateBps, elapsed)
		if err != nil {
			return err
		}

		if totalBorrows, err = Add(totalBorrows, interest); err != nil {
			return err
		}
	}

	market.TotalBorrows = totalBorrows
	market.LastAccrualTime = now
	return nil
}

// Interest accrued on borrows over elapsed seconds
func Interest(borrows, rateBps, elapsed uint64) (uint64, error) {
	factor := new(uint256.Int).Mul(uint256.NewInt(rateBps), uint256.NewInt(elapsed))
	factor.Div(factor, rateDenominator)
	if !factor.IsUint64() {
		return 0, core.ErrMathOverflow
	}

	return mul(borrows, factor.Uint64())
}

func elapsedSince(last, now int64) (uint64, error) {
	elapsed := now - last
	// signed overflow or a clock running backwards
	if (last < 0 && elapsed < now) || (last > 0 && elapsed > now) || elapsed < 0 {
		return 0, core.ErrMathOverflow
	}

	return uint64(elapsed), nil
}
