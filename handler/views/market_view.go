package views

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/shopspring/decimal"
)

// Market market view
type Market struct {
	core.Market
	BorrowAPR   decimal.Decimal `json:"borrow_apr"`
	MaxLTV      decimal.Decimal `json:"max_ltv"`
	Utilization decimal.Decimal `json:"utilization"`
	Liquidity   uint64          `json:"liquidity"`
	Suppliers   int64           `json:"suppliers"`
	Borrowers   int64           `json:"borrowers"`
}

// MarketView market view with interest accrued to now
func MarketView(m *core.Market, liquidity uint64, suppliers, borrowers int64) *Market {
	return &Market{
		Market:      *m,
		BorrowAPR:   number.Bps(m.FixedBorrowRateBps),
		MaxLTV:      number.Bps(m.MaxLTVBps),
		Utilization: number.Ratio(m.TotalBorrows, m.TotalDeposits, 4),
		Liquidity:   liquidity,
		Suppliers:   suppliers,
		Borrowers:   borrowers,
	}
}
