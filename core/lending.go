package core

import (
	"context"
)

// ILendingService lending operations on one market and one position
//
// The market and position are only written back when the operation succeeds.
type ILendingService interface {
	Deposit(ctx context.Context, custody Custody, market *Market, position *Position, amount uint64) (*Transaction, error)
	Withdraw(ctx context.Context, custody Custody, market *Market, position *Position, amount uint64) (*Transaction, error)
	Borrow(ctx context.Context, custody Custody, market *Market, position *Position, amount uint64) (*Transaction, error)
	Repay(ctx context.Context, custody Custody, market *Market, position *Position, amount uint64) (*Transaction, error)
	// AddLiquidity funds the borrow vault without minting shares
	AddLiquidity(ctx context.Context, custody Custody, market *Market, providerID string, amount uint64) (*Transaction, error)
}
