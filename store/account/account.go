package account

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type accountStore struct {
	db *db.DB
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Account{})
		if err := tx.AutoMigrate(core.Account{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountStore) Create(ctx context.Context, tx *db.DB, account *core.Account) error {
	return tx.Update().Where("account_id=?", account.AccountID).FirstOrCreate(account).Error
}

func (s *accountStore) Find(ctx context.Context, tx *db.DB, accountID string) (*core.Account, error) {
	var account core.Account
	if e := tx.Update().Where("account_id=?", accountID).First(&account).Error; e != nil {
		return nil, e
	}

	return &account, nil
}

func (s *accountStore) Update(ctx context.Context, tx *db.DB, account *core.Account) error {
	version := account.Version
	update := tx.Update().Model(core.Account{}).Where("account_id=? and version=?", account.AccountID, version).
		Updates(map[string]interface{}{
			"balance": account.Balance,
			"version": version + 1,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	account.Version++
	return nil
}

func (s *accountStore) ListByOwner(ctx context.Context, ownerID string) ([]*core.Account, error) {
	var accounts []*core.Account
	if e := s.db.View().Where("owner_id=?", ownerID).Order("id ASC").Find(&accounts).Error; e != nil {
		return nil, e
	}

	return accounts, nil
}
