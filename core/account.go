package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Account custodial balance of one asset
type Account struct {
	ID        int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AccountID string    `sql:"size:36;unique_index:idx_accounts_account_id" json:"account_id"`
	OwnerID   string    `sql:"size:36;index:idx_accounts_owner_id" json:"owner_id"`
	AssetID   string    `sql:"size:36" json:"asset_id"`
	Balance   uint64    `sql:"default:0" json:"balance"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IAccountStore account store interface
type IAccountStore interface {
	// Create creates the account if it does not exist yet
	Create(ctx context.Context, tx *db.DB, account *Account) error
	Find(ctx context.Context, tx *db.DB, accountID string) (*Account, error)
	Update(ctx context.Context, tx *db.DB, account *Account) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Account, error)
}

// Custody moves assets between custodial accounts
type Custody interface {
	Balance(ctx context.Context, accountID string) (uint64, error)
	// Transfer is a no-op for zero amounts. Every failure wraps ErrTransferFailed
	Transfer(ctx context.Context, transfer *Transfer) error
}

// ICustodyService custody service interface
type ICustodyService interface {
	// Bind returns a custody whose writes join the database transaction tx
	Bind(tx *db.DB, traceID string) Custody
	// Open creates an account owned by ownerID if missing
	Open(ctx context.Context, tx *db.DB, accountID, ownerID, assetID string) (*Account, error)
	// Mint credits a user account out of thin air, admin only
	Mint(ctx context.Context, traceID, ownerID, assetID string, amount uint64) (*Account, error)
	Find(ctx context.Context, ownerID, assetID string) (*Account, error)
	List(ctx context.Context, ownerID string) ([]*Account, error)
	// Transfers newest first journal entries touching the owner's account of asset
	Transfers(ctx context.Context, ownerID, assetID string, limit int) ([]*Transfer, error)
	// Balance reads a committed balance outside any transaction
	Balance(ctx context.Context, accountID string) (uint64, error)
}
