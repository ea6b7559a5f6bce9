package lending

import (
	"lendpool/core"
)

// MintShares shares minted for amount against the pool total before the amount is added
//
// An empty pool mints 1:1.
func MintShares(amount, totalAmount, totalShares uint64) (uint64, error) {
	if totalShares == 0 {
		return amount, nil
	}

	return mulDiv(amount, totalShares, totalAmount)
}

// AmountForShares pool value the shares are worth, rounded down
func AmountForShares(shares, totalAmount, totalShares uint64) (uint64, error) {
	if totalShares == 0 {
		return 0, nil
	}

	return mulDiv(shares, totalAmount, totalShares)
}

// SharesToBurn shares released when amount of userAmount is taken out
func SharesToBurn(amount, userShares, userAmount uint64) (uint64, error) {
	if userAmount == 0 {
		return 0, nil
	}

	return mulDiv(amount, userShares, userAmount)
}

// DepositAmount collateral the position's deposit shares are worth
func DepositAmount(market *core.Market, position *core.Position) (uint64, error) {
	return AmountForShares(position.DepositedShares, market.TotalDeposits, market.TotalDepositShares)
}
