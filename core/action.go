package core

import (
	"context"
)

// ActionType action type
type ActionType int

const (
	// ActionTypeDefault default
	ActionTypeDefault ActionType = iota
	// ActionTypeDeposit deposit collateral
	ActionTypeDeposit
	// ActionTypeWithdraw withdraw collateral
	ActionTypeWithdraw
	// ActionTypeBorrow borrow from the pool
	ActionTypeBorrow
	// ActionTypeRepay repay debt
	ActionTypeRepay
	// ActionTypeAddLiquidity fund the borrow vault
	ActionTypeAddLiquidity
)

var actionNames = map[ActionType]string{
	ActionTypeDefault:      "default",
	ActionTypeDeposit:      "deposit",
	ActionTypeWithdraw:     "withdraw",
	ActionTypeBorrow:       "borrow",
	ActionTypeRepay:        "repay",
	ActionTypeAddLiquidity: "liquidity",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// ParseActionType parse action name
func ParseActionType(name string) (ActionType, bool) {
	for a, n := range actionNames {
		if a != ActionTypeDefault && n == name {
			return a, true
		}
	}

	return ActionTypeDefault, false
}

// ActionRequest user request for one lending operation
type ActionRequest struct {
	// TraceID idempotency key chosen by the client
	TraceID  string     `json:"trace_id" valid:"uuid,required"`
	MarketID string     `json:"market_id" valid:"uuid,required"`
	UserID   string     `json:"user_id" valid:"required"`
	Action   ActionType `json:"action"`
	Amount   uint64     `json:"amount"`
}

// IActionService executes lending operations inside one database transaction
type IActionService interface {
	Handle(ctx context.Context, req *ActionRequest) (*Transaction, error)
	OpenPosition(ctx context.Context, marketID, userID string) (*Position, error)
}
