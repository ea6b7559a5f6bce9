package transaction

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.TransactionStore {
	return &transactionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})
		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transactionStore) Create(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	return tx.Update().Create(transaction).Error
}

func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	var transaction core.Transaction
	if err := s.db.View().Where("trace_id=?", traceID).First(&transaction).Error; err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (s *transactionStore) List(ctx context.Context, query core.TransactionQuery) ([]*core.Transaction, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 500
	}

	tx := s.db.View().Where("id > ?", query.FromID)
	if query.MarketID != "" {
		tx = tx.Where("market_id=?", query.MarketID)
	}
	if query.UserID != "" {
		tx = tx.Where("user_id=?", query.UserID)
	}

	var transactions []*core.Transaction
	if err := tx.Order("id ASC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}
