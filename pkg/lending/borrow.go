package lending

import (
	"lendpool/core"
)

// DebtAmount debt the position's borrow shares are worth, accrued interest included
func DebtAmount(market *core.Market, position *core.Position) (uint64, error) {
	return AmountForShares(position.BorrowedShares, market.TotalBorrows, market.TotalBorrowShares)
}

// RepayAmount caps the offered amount at the debt owed
func RepayAmount(amount, owed uint64) uint64 {
	if amount > owed {
		return owed
	}

	return amount
}
