package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
)

const (
	// TransactionKeyTotalDeposits total deposits after the operation
	TransactionKeyTotalDeposits = "total_deposits"
	// TransactionKeyTotalBorrows total borrows after the operation
	TransactionKeyTotalBorrows = "total_borrows"
	// TransactionKeyTotalDepositShares total deposit shares
	TransactionKeyTotalDepositShares = "total_deposit_shares"
	// TransactionKeyTotalBorrowShares total borrow shares
	TransactionKeyTotalBorrowShares = "total_borrow_shares"
	// TransactionKeyRequested amount asked for, repay may transfer less
	TransactionKeyRequested = "requested"
	// TransactionKeyAssetID asset id
	TransactionKeyAssetID = "asset_id"
)

type ExtraDataFormatter interface {
	Format() []byte
}

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction event emitted by a successful lending operation
type Transaction struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID   string         `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	MarketID  string         `sql:"size:36;index:idx_transactions_market_id" json:"market_id,omitempty"`
	UserID    string         `sql:"size:36;index:idx_transactions_user_id" json:"user_id,omitempty"`
	Action    ActionType     `json:"action,omitempty"`
	Amount    uint64         `json:"amount"`
	Shares    uint64         `json:"shares"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

func (t *Transaction) SetExtraData(extra ExtraDataFormatter) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// TransactionQuery list filter, empty fields match everything
type TransactionQuery struct {
	MarketID string
	UserID   string
	// FromID exclusive lower bound of the row id
	FromID int64
	Limit  int
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, query TransactionQuery) ([]*Transaction, error)
}

// RequestedAmount amount of the request that produced the transaction
func (t *Transaction) RequestedAmount() uint64 {
	var extra struct {
		Requested *uint64 `json:"requested"`
	}

	if err := json.Unmarshal(t.Data, &extra); err == nil && extra.Requested != nil {
		return *extra.Requested
	}

	return t.Amount
}

// BuildTransaction event of one operation on the market, extra may be nil
func BuildTransaction(market *Market, userID string, action ActionType, amount, shares uint64, now int64, extra TransactionExtraData) *Transaction {
	if extra == nil {
		extra = NewTransactionExtra()
	}

	extra.Put(TransactionKeyTotalDeposits, market.TotalDeposits)
	extra.Put(TransactionKeyTotalBorrows, market.TotalBorrows)
	extra.Put(TransactionKeyTotalDepositShares, market.TotalDepositShares)
	extra.Put(TransactionKeyTotalBorrowShares, market.TotalBorrowShares)

	t := &Transaction{
		MarketID:  market.MarketID,
		UserID:    userID,
		Action:    action,
		Amount:    amount,
		Shares:    shares,
		Timestamp: now,
	}
	t.SetExtraData(extra)
	return t
}
