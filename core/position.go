package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Position one user's stake in one market
type Position struct {
	ID              int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	MarketID        string    `sql:"size:36;unique_index:idx_positions_market_user" json:"market_id"`
	UserID          string    `sql:"size:36;unique_index:idx_positions_market_user" json:"user_id"`
	DepositedAmount uint64    `sql:"default:0" json:"deposited_amount"`
	DepositedShares uint64    `sql:"default:0" json:"deposited_shares"`
	BorrowedAmount  uint64    `sql:"default:0" json:"borrowed_amount"`
	BorrowedShares  uint64    `sql:"default:0" json:"borrowed_shares"`
	LastUpdateTime  int64     `json:"last_update_time"`
	Version         int64     `sql:"default:0" json:"version"`
	CreatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
type IPositionStore interface {
	Create(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, marketID, userID string) (*Position, error)
	Load(ctx context.Context, tx *db.DB, marketID, userID string) (*Position, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error
	ListByMarket(ctx context.Context, marketID string) ([]*Position, error)
	// CountOfParticipants counts positions holding deposit and borrow shares
	CountOfParticipants(ctx context.Context, marketID string) (suppliers, borrowers int64, err error)
}
