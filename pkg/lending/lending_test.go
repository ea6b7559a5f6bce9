package lending

import (
	"math"
	"testing"

	"lendpool/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintShares(t *testing.T) {
	cases := []struct {
		name        string
		amount      uint64
		totalAmount uint64
		totalShares uint64
		want        uint64
		err         error
	}{
		{name: "bootstrap", amount: 100, want: 100},
		{name: "bootstrap ignores stale total", amount: 100, totalAmount: 7, want: 100},
		{name: "proportional", amount: 50, totalAmount: 200, totalShares: 100, want: 25},
		{name: "truncates", amount: 3, totalAmount: 200, totalShares: 100, want: 1},
		{name: "dust mints nothing", amount: 1, totalAmount: 200, totalShares: 100, want: 0},
		{name: "zero denominator", amount: 1, totalAmount: 0, totalShares: 100, err: core.ErrMathOverflow},
		{name: "wide product", amount: math.MaxUint64, totalAmount: math.MaxUint64, totalShares: math.MaxUint64, want: math.MaxUint64},
		{name: "narrowing overflow", amount: math.MaxUint64, totalAmount: 1, totalShares: 2, err: core.ErrMathOverflow},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			shares, err := MintShares(c.amount, c.totalAmount, c.totalShares)
			if c.err != nil {
				assert.ErrorIs(t, err, c.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, c.want, shares)
		})
	}
}

func TestAmountForShares(t *testing.T) {
	amount, err := AmountForShares(25, 250, 125)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), amount)

	amount, err = AmountForShares(1, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), amount, "rounds down")

	amount, err = AmountForShares(10, 100, 0)
	require.NoError(t, err)
	assert.Zero(t, amount, "empty pool is worth nothing")
}

func TestSharesToBurn(t *testing.T) {
	burn, err := SharesToBurn(40, 100, 80)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), burn)

	burn, err = SharesToBurn(40, 100, 0)
	require.NoError(t, err)
	assert.Zero(t, burn)
}

func TestRepayAmount(t *testing.T) {
	assert.Equal(t, uint64(50), RepayAmount(100, 50))
	assert.Equal(t, uint64(30), RepayAmount(30, 50))
	assert.Zero(t, RepayAmount(30, 0))
}

func TestCheckLTV(t *testing.T) {
	assert.NoError(t, CheckLTV(1000, 700, 7000), "equality is allowed")
	assert.ErrorIs(t, CheckLTV(1000, 701, 7000), core.ErrExceedsMaximumLtv)
	assert.NoError(t, CheckLTV(0, 0, 7000))
	assert.ErrorIs(t, CheckLTV(0, 1, 7000), core.ErrExceedsMaximumLtv)
	assert.NoError(t, CheckLTV(math.MaxUint64, math.MaxUint64, BasisPoints), "no overflow in wide compare")
}

func TestAccrueInterest(t *testing.T) {
	t.Run("one day truncates to zero", func(t *testing.T) {
		m := &core.Market{TotalBorrows: 1_000_000, FixedBorrowRateBps: 500, LastAccrualTime: 1000}
		require.NoError(t, AccrueInterest(m, 1000+86400))

		factor := uint64(500 * 86400 / (10000 * 365 * 86400))
		assert.Equal(t, uint64(1_000_000)+1_000_000*factor, m.TotalBorrows)
		assert.Equal(t, uint64(1_000_000), m.TotalBorrows)
		assert.Equal(t, int64(1000+86400), m.LastAccrualTime)
	})

	t.Run("whole factor", func(t *testing.T) {
		// 500 bps for 20 years is a factor of exactly one
		elapsed := int64(20 * SecondsPerYear)
		m := &core.Market{TotalBorrows: 1_000_000, FixedBorrowRateBps: 500}
		require.NoError(t, AccrueInterest(m, elapsed))
		assert.Equal(t, uint64(2_000_000), m.TotalBorrows)
		assert.Equal(t, elapsed, m.LastAccrualTime)
	})

	t.Run("no borrows only moves the clock", func(t *testing.T) {
		m := &core.Market{FixedBorrowRateBps: 500, LastAccrualTime: 10}
		require.NoError(t, AccrueInterest(m, 20))
		assert.Zero(t, m.TotalBorrows)
		assert.Equal(t, int64(20), m.LastAccrualTime)
	})

	t.Run("zero elapsed", func(t *testing.T) {
		m := &core.Market{TotalBorrows: 5, FixedBorrowRateBps: math.MaxUint64, LastAccrualTime: 10}
		require.NoError(t, AccrueInterest(m, 10))
		assert.Equal(t, uint64(5), m.TotalBorrows)
	})

	t.Run("clock backwards", func(t *testing.T) {
		m := &core.Market{TotalBorrows: 5, LastAccrualTime: 10}
		assert.ErrorIs(t, AccrueInterest(m, 9), core.ErrMathOverflow)
		assert.Equal(t, int64(10), m.LastAccrualTime)
	})

	t.Run("elapsed overflow", func(t *testing.T) {
		m := &core.Market{LastAccrualTime: math.MinInt64}
		assert.ErrorIs(t, AccrueInterest(m, math.MaxInt64), core.ErrMathOverflow)
	})

	t.Run("interest overflow leaves market untouched", func(t *testing.T) {
		m := &core.Market{TotalBorrows: math.MaxUint64, FixedBorrowRateBps: 500}
		assert.ErrorIs(t, AccrueInterest(m, 20*SecondsPerYear), core.ErrMathOverflow)
		assert.Equal(t, uint64(math.MaxUint64), m.TotalBorrows)
		assert.Zero(t, m.LastAccrualTime)
	})
}
