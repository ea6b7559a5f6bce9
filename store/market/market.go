package market

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *marketStore) Create(ctx context.Context, tx *db.DB, market *core.Market) error {
	if err := tx.Update().Create(market).Error; err != nil {
		return err
	}
	return nil
}

func (s *marketStore) Find(ctx context.Context, marketID string) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where("market_id=?", marketID).First(&market).Error; err != nil {
		return nil, err
	}

	return &market, nil
}

func (s *marketStore) Load(ctx context.Context, tx *db.DB, marketID string) (*core.Market, error) {
	var market core.Market
	if err := tx.Update().Where("market_id=?", marketID).First(&market).Error; err != nil {
		return nil, err
	}

	return &market, nil
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Order("id ASC").Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *marketStore) Update(ctx context.Context, tx *db.DB, market *core.Market) error {
	version := market.Version
	update := tx.Update().Model(core.Market{}).Where("market_id=? and version=?", market.MarketID, version).
		Updates(map[string]interface{}{
			"total_deposits":       market.TotalDeposits,
			"total_borrows":        market.TotalBorrows,
			"total_deposit_shares": market.TotalDepositShares,
			"total_borrow_shares":  market.TotalBorrowShares,
			"last_accrual_time":    market.LastAccrualTime,
			"status":               market.Status,
			"version":              version + 1,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	market.Version++
	return nil
}

func (s *marketStore) Invalidate(ctx context.Context, marketID string) {}
