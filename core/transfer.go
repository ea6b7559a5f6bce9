package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Transfer custody transfer journal entry
type Transfer struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	TraceID   string    `sql:"size:36;unique_index:idx_transfers_trace_id" json:"trace_id,omitempty"`
	From      string    `gorm:"column:from_account_id" sql:"size:36;index:idx_transfers_from" json:"from,omitempty"`
	To        string    `gorm:"column:to_account_id" sql:"size:36;index:idx_transfers_to" json:"to,omitempty"`
	AssetID   string    `sql:"size:36" json:"asset_id,omitempty"`
	Amount    uint64    `json:"amount,omitempty"`
	// Signer must own the From account; empty for mints
	Signer string `sql:"size:36" json:"signer,omitempty"`
	Memo   string `sql:"size:140" json:"memo,omitempty"`
}

// ITransferStore transfer store interface
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	FindByTraceID(ctx context.Context, traceID string) (*Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*Transfer, error)
}
