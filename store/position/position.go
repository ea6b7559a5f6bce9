package position

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Create(ctx context.Context, tx *db.DB, position *core.Position) error {
	return tx.Update().Create(position).Error
}

func (s *positionStore) Find(ctx context.Context, marketID, userID string) (*core.Position, error) {
	var position core.Position
	if e := s.db.View().Where("market_id=? and user_id=?", marketID, userID).First(&position).Error; e != nil {
		return nil, e
	}

	return &position, nil
}

func (s *positionStore) Load(ctx context.Context, tx *db.DB, marketID, userID string) (*core.Position, error) {
	var position core.Position
	if e := tx.Update().Where("market_id=? and user_id=?", marketID, userID).First(&position).Error; e != nil {
		return nil, e
	}

	return &position, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	update := tx.Update().Model(core.Position{}).Where("market_id=? and user_id=? and version=?", position.MarketID, position.UserID, version).
		Updates(map[string]interface{}{
			"deposited_amount": position.DepositedAmount,
			"deposited_shares": position.DepositedShares,
			"borrowed_amount":  position.BorrowedAmount,
			"borrowed_shares":  position.BorrowedShares,
			"last_update_time": position.LastUpdateTime,
			"version":          version + 1,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	position.Version++
	return nil
}

func (s *positionStore) ListByMarket(ctx context.Context, marketID string) ([]*core.Position, error) {
	var positions []*core.Position
	if e := s.db.View().Where("market_id=?", marketID).Order("id ASC").Find(&positions).Error; e != nil {
		return nil, e
	}

	return positions, nil
}

func (s *positionStore) CountOfParticipants(ctx context.Context, marketID string) (int64, int64, error) {
	var suppliers, borrowers int64
	if e := s.db.View().Model(core.Position{}).Where("market_id=? and deposited_shares > 0", marketID).Count(&suppliers).Error; e != nil {
		return 0, 0, e
	}

	if e := s.db.View().Model(core.Position{}).Where("market_id=? and borrowed_shares > 0", marketID).Count(&borrowers).Error; e != nil {
		return 0, 0, e
	}

	return suppliers, borrowers, nil
}
