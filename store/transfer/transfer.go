package transfer

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	return tx.Update().Create(transfer).Error
}

func (s *transferStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transfer, error) {
	var transfer core.Transfer
	if e := s.db.View().Where("trace_id=?", traceID).First(&transfer).Error; e != nil {
		return nil, e
	}

	return &transfer, nil
}

func (s *transferStore) ListByAccount(ctx context.Context, accountID string, limit int) ([]*core.Transfer, error) {
	if limit <= 0 {
		limit = 500
	}

	var transfers []*core.Transfer
	if e := s.db.View().Where("from_account_id=? or to_account_id=?", accountID, accountID).Order("id DESC").Limit(limit).Find(&transfers).Error; e != nil {
		return nil, e
	}

	return transfers, nil
}
