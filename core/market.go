package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// MarketStatus market status
type MarketStatus int

const (
	// MarketStatusOpen accepts every operation
	MarketStatusOpen MarketStatus = iota
	// MarketStatusPaused rejects every operation
	MarketStatusPaused
)

func (s MarketStatus) String() string {
	switch s {
	case MarketStatusOpen:
		return "open"
	case MarketStatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ParseMarketStatus parse status name
func ParseMarketStatus(s string) (MarketStatus, bool) {
	switch s {
	case "open":
		return MarketStatusOpen, true
	case "paused":
		return MarketStatusPaused, true
	default:
		return 0, false
	}
}

// Market pooled market state
type Market struct {
	ID             uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	MarketID       string `sql:"size:36;unique_index:idx_markets_market_id" json:"market_id"`
	Authority      string `sql:"size:36" json:"authority"`
	DepositAssetID string `sql:"size:36" json:"deposit_asset_id"`
	BorrowAssetID  string `sql:"size:36" json:"borrow_asset_id"`
	// custody account holding deposited collateral
	DepositVault string `sql:"size:36" json:"deposit_vault"`
	// custody account holding lendable liquidity
	BorrowVault        string       `sql:"size:36" json:"borrow_vault"`
	TotalDeposits      uint64       `sql:"default:0" json:"total_deposits"`
	TotalBorrows       uint64       `sql:"default:0" json:"total_borrows"`
	TotalDepositShares uint64       `sql:"default:0" json:"total_deposit_shares"`
	TotalBorrowShares  uint64       `sql:"default:0" json:"total_borrow_shares"`
	FixedBorrowRateBps uint64       `json:"fixed_borrow_rate_bps"`
	MaxLTVBps          uint64       `json:"max_ltv_bps"`
	LastAccrualTime    int64        `json:"last_accrual_time"`
	Status             MarketStatus `sql:"default:0" json:"status"`
	Version            int64        `sql:"default:0" json:"version"`
	CreatedAt          time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsPaused market rejects operations
func (m *Market) IsPaused() bool {
	return m.Status == MarketStatusPaused
}

// Format market as json bytes
func (m *Market) Format() []byte {
	bs, err := json.Marshal(m)
	if err != nil {
		return []byte("{}")
	}

	return bs
}

// MarketCreate market creation parameters
type MarketCreate struct {
	Authority          string `json:"authority" valid:"required"`
	DepositAssetID     string `json:"deposit_asset_id" valid:"uuid,required"`
	BorrowAssetID      string `json:"borrow_asset_id" valid:"uuid,required"`
	FixedBorrowRateBps uint64 `json:"fixed_borrow_rate_bps"`
	MaxLTVBps          uint64 `json:"max_ltv_bps"`
}

// IMarketStore market store interface
type IMarketStore interface {
	Create(ctx context.Context, tx *db.DB, market *Market) error
	Find(ctx context.Context, marketID string) (*Market, error)
	// Load reads the row through tx, never from a cache
	Load(ctx context.Context, tx *db.DB, marketID string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
	// Update bumps the version, fails with db.ErrOptimisticLock on conflict
	Update(ctx context.Context, tx *db.DB, market *Market) error
	// Invalidate drops cached copies once the writing transaction committed
	Invalidate(ctx context.Context, marketID string)
}

// IMarketService market interface
type IMarketService interface {
	Create(ctx context.Context, req *MarketCreate) (*Market, error)
	SetStatus(ctx context.Context, marketID string, status MarketStatus) (*Market, error)
	// Accrued returns a copy of the market with interest accrued to now
	Accrued(ctx context.Context, market *Market) (*Market, error)
	// Preview accrues a copy of the market and values the position's shares against it
	Preview(ctx context.Context, market *Market, position *Position) (accrued *Market, deposit, debt uint64, err error)
}
