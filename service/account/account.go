package account

import (
	"context"
	"fmt"

	"lendpool/core"
	"lendpool/pkg/id"
	"lendpool/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type accountService struct {
	db        *db.DB
	accounts  core.IAccountStore
	transfers core.ITransferStore
}

// New new custody service over the account ledger
func New(db *db.DB, accounts core.IAccountStore, transfers core.ITransferStore) core.ICustodyService {
	return &accountService{
		db:        db,
		accounts:  accounts,
		transfers: transfers,
	}
}

func (s *accountService) Bind(tx *db.DB, traceID string) core.Custody {
	return &custody{
		accounts:  s.accounts,
		transfers: s.transfers,
		tx:        tx,
		traceID:   traceID,
	}
}

func (s *accountService) Open(ctx context.Context, tx *db.DB, accountID, ownerID, assetID string) (*core.Account, error) {
	account := core.Account{
		AccountID: accountID,
		OwnerID:   ownerID,
		AssetID:   assetID,
	}

	if err := s.accounts.Create(ctx, tx, &account); err != nil {
		return nil, err
	}

	if account.OwnerID != ownerID || account.AssetID != assetID {
		return nil, fmt.Errorf("%w: account %s belongs to another owner or asset", core.ErrInvalidArgument, accountID)
	}

	return &account, nil
}

func (s *accountService) Mint(ctx context.Context, traceID, ownerID, assetID string, amount uint64) (*core.Account, error) {
	log := logger.FromContext(ctx).WithField("service", "mint")

	if amount == 0 {
		return nil, core.ErrInvalidAmount
	}

	accountID := id.AccountID(ownerID, assetID)
	if _, err := s.transfers.FindByTraceID(ctx, traceID); err == nil {
		return s.accounts.Find(ctx, s.db, accountID)
	} else if !store.IsErrNotFound(err) {
		return nil, err
	}

	var account *core.Account
	err := s.db.Tx(func(tx *db.DB) error {
		a, err := s.Open(ctx, tx, accountID, ownerID, assetID)
		if err != nil {
			return err
		}

		if a.Balance, err = lending.Add(a.Balance, amount); err != nil {
			return err
		}

		if err := s.accounts.Update(ctx, tx, a); err != nil {
			return err
		}

		account = a
		return s.transfers.Create(ctx, tx, &core.Transfer{
			TraceID: traceID,
			To:      accountID,
			AssetID: assetID,
			Amount:  amount,
			Memo:    "mint",
		})
	})
	if err != nil {
		if _, ferr := s.transfers.FindByTraceID(ctx, traceID); ferr == nil {
			return s.accounts.Find(ctx, s.db, accountID)
		}

		log.WithError(err).Errorln("mint")
		return nil, err
	}

	return account, nil
}

func (s *accountService) Find(ctx context.Context, ownerID, assetID string) (*core.Account, error) {
	return s.accounts.Find(ctx, s.db, id.AccountID(ownerID, assetID))
}

func (s *accountService) List(ctx context.Context, ownerID string) ([]*core.Account, error) {
	return s.accounts.ListByOwner(ctx, ownerID)
}

func (s *accountService) Transfers(ctx context.Context, ownerID, assetID string, limit int) ([]*core.Transfer, error) {
	return s.transfers.ListByAccount(ctx, id.AccountID(ownerID, assetID), limit)
}

func (s *accountService) Balance(ctx context.Context, accountID string) (uint64, error) {
	return s.Bind(s.db, "").Balance(ctx, accountID)
}

type custody struct {
	accounts  core.IAccountStore
	transfers core.ITransferStore
	tx        *db.DB
	traceID   string
	seq       int
}

func (c *custody) Balance(ctx context.Context, accountID string) (uint64, error) {
	account, err := c.accounts.Find(ctx, c.tx, accountID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return 0, nil
		}

		return 0, err
	}

	return account.Balance, nil
}

func (c *custody) Transfer(ctx context.Context, t *core.Transfer) error {
	if t.Amount == 0 {
		return nil
	}

	from, err := c.find(ctx, t.From, t.AssetID)
	if err != nil {
		return err
	}

	if from.OwnerID != t.Signer {
		return fmt.Errorf("%w: %s is not signed by its owner", core.ErrTransferFailed, t.From)
	}

	to, err := c.find(ctx, t.To, t.AssetID)
	if err != nil {
		return err
	}

	if from.AccountID == to.AccountID {
		return fmt.Errorf("%w: transfer to self", core.ErrTransferFailed)
	}

	if from.Balance < t.Amount {
		return fmt.Errorf("%w: insufficient balance in %s", core.ErrTransferFailed, t.From)
	}

	from.Balance -= t.Amount
	if to.Balance, err = lending.Add(to.Balance, t.Amount); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransferFailed, err)
	}

	if err := c.accounts.Update(ctx, c.tx, from); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransferFailed, err)
	}

	if err := c.accounts.Update(ctx, c.tx, to); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransferFailed, err)
	}

	c.seq++
	journal := *t
	journal.TraceID = id.UUIDFromString(fmt.Sprintf("%s:transfer:%d", c.traceID, c.seq))
	if err := c.transfers.Create(ctx, c.tx, &journal); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransferFailed, err)
	}

	return nil
}

func (c *custody) find(ctx context.Context, accountID, assetID string) (*core.Account, error) {
	account, err := c.accounts.Find(ctx, c.tx, accountID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: account %s not found", core.ErrTransferFailed, accountID)
		}

		return nil, fmt.Errorf("%w: %w", core.ErrTransferFailed, err)
	}

	if account.AssetID != assetID {
		return nil, fmt.Errorf("%w: account %s holds another asset", core.ErrTransferFailed, accountID)
	}

	return account, nil
}
