package views

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/shopspring/decimal"
)

// Position position view
type Position struct {
	core.Position
	Deposit uint64          `json:"deposit"`
	Debt    uint64          `json:"debt"`
	LTV     decimal.Decimal `json:"ltv"`
}

func PositionView(p *core.Position, deposit, debt uint64) *Position {
	return &Position{
		Position: *p,
		Deposit:  deposit,
		Debt:     debt,
		LTV:      number.Ceil(number.Ratio(debt, deposit, 8), 4),
	}
}
