package lending

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/id"
	"lendpool/pkg/lending"

	"github.com/fox-one/pkg/logger"
)

// New new lending service, clock defaults to time.Now
func New(clock func() time.Time) core.ILendingService {
	if clock == nil {
		clock = time.Now
	}

	return &service{clock: clock}
}

type service struct {
	clock func() time.Time
}

// prepare accrues a copy of the market
func (s *service) prepare(market *core.Market, amount uint64) (core.Market, int64, error) {
	m := *market
	if amount == 0 {
		return m, 0, core.ErrInvalidAmount
	}

	if m.IsPaused() {
		return m, 0, core.ErrProtocolPaused
	}

	now := s.clock().Unix()
	if err := lending.AccrueInterest(&m, now); err != nil {
		return m, 0, err
	}

	return m, now, nil
}

func (s *service) Deposit(ctx context.Context, custody core.Custody, market *core.Market, position *core.Position, amount uint64) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("service", "deposit")

	m, now, err := s.prepare(market, amount)
	if err != nil {
		return nil, err
	}
	p := *position

	// minted against the pool total before this deposit
	shares, err := lending.MintShares(amount, m.TotalDeposits, m.TotalDepositShares)
	if err != nil {
		return nil, err
	}

	if m.TotalDeposits, err = lending.Add(m.TotalDeposits, amount); err != nil {
		return nil, err
	}
	if m.TotalDepositShares, err = lending.Add(m.TotalDepositShares, shares); err != nil {
		return nil, err
	}
	if p.DepositedAmount, err = lending.Add(p.DepositedAmount, amount); err != nil {
		return nil, err
	}
	if p.DepositedShares, err = lending.Add(p.DepositedShares, shares); err != nil {
		return nil, err
	}
	p.LastUpdateTime = now

	if err := custody.Transfer(ctx, &core.Transfer{
		From:    id.AccountID(p.UserID, m.DepositAssetID),
		To:      m.DepositVault,
		AssetID: m.DepositAssetID,
		Amount:  amount,
		Signer:  p.UserID,
		Memo:    core.ActionTypeDeposit.String(),
	}); err != nil {
		log.WithError(err).Infoln("transfer to deposit vault")
		return nil, err
	}

	*market, *position = m, p
	return s.event(&m, p.UserID, core.ActionTypeDeposit, m.DepositAssetID, amount, shares, now, nil), nil
}

func (s *service) Withdraw(ctx context.Context, custody core.Custody, market *core.Market, position *core.Position, amount uint64) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("service", "withdraw")

	m, now, err := s.prepare(market, amount)
	if err != nil {
		return nil, err
	}
	p := *position

	deposit, err := lending.DepositAmount(&m, &p)
	if err != nil {
		return nil, err
	}

	if deposit < amount {
		return nil, core.ErrInvalidAmount
	}

	burn, err := lending.SharesToBurn(amount, p.DepositedShares, deposit)
	if err != nil {
		return nil, err
	}

	if p.DepositedAmount, err = lending.Sub(p.DepositedAmount, amount); err != nil {
		return nil, err
	}
	if p.DepositedShares, err = lending.Sub(p.DepositedShares, burn); err != nil {
		return nil, err
	}

	if p.BorrowedAmount > 0 {
		if err := lending.CheckLTV(p.DepositedAmount, p.BorrowedAmount, m.MaxLTVBps); err != nil {
			return nil, err
		}
	}

	if m.TotalDeposits, err = lending.Sub(m.TotalDeposits, amount); err != nil {
		return nil, err
	}
	if m.TotalDepositShares, err = lending.Sub(m.TotalDepositShares, burn); err != nil {
		return nil, err
	}
	p.LastUpdateTime = now

	if err := custody.Transfer(ctx, &core.Transfer{
		From:    m.DepositVault,
		To:      id.AccountID(p.UserID, m.DepositAssetID),
		AssetID: m.DepositAssetID,
		Amount:  amount,
		Signer:  m.MarketID,
		Memo:    core.ActionTypeWithdraw.String(),
	}); err != nil {
		log.WithError(err).Errorln("transfer from deposit vault")
		return nil, err
	}

	*market, *position = m, p
	return s.event(&m, p.UserID, core.ActionTypeWithdraw, m.DepositAssetID, amount, burn, now, nil), nil
}

func (s *service) Borrow(ctx context.Context, custody core.Custody, market *core.Market, position *core.Position, amount uint64) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("service", "borrow")

	m, now, err := s.prepare(market, amount)
	if err != nil {
		return nil, err
	}
	p := *position

	liquidity, err := custody.Balance(ctx, m.BorrowVault)
	if err != nil {
		log.WithError(err).Errorln("read borrow vault balance")
		return nil, err
	}

	if liquidity < amount {
		return nil, core.ErrInsufficientLiquidity
	}

	debt, err := lending.Add(p.BorrowedAmount, amount)
	if err != nil {
		return nil, err
	}

	if err := lending.CheckLTV(p.DepositedAmount, debt, m.MaxLTVBps); err != nil {
		return nil, err
	}

	// first borrower gets 1:1
	shares, err := lending.MintShares(amount, m.TotalBorrows, m.TotalBorrowShares)
	if err != nil {
		return nil, err
	}

	p.BorrowedAmount = debt
	if p.BorrowedShares, err = lending.Add(p.BorrowedShares, shares); err != nil {
		return nil, err
	}
	if m.TotalBorrows, err = lending.Add(m.TotalBorrows, amount); err != nil {
		return nil, err
	}
	if m.TotalBorrowShares, err = lending.Add(m.TotalBorrowShares, shares); err != nil {
		return nil, err
	}
	p.LastUpdateTime = now

	if err := custody.Transfer(ctx, &core.Transfer{
		From:    m.BorrowVault,
		To:      id.AccountID(p.UserID, m.BorrowAssetID),
		AssetID: m.BorrowAssetID,
		Amount:  amount,
		Signer:  m.MarketID,
		Memo:    core.ActionTypeBorrow.String(),
	}); err != nil {
		log.WithError(err).Errorln("transfer from borrow vault")
		return nil, err
	}

	*market, *position = m, p
	return s.event(&m, p.UserID, core.ActionTypeBorrow, m.BorrowAssetID, amount, shares, now, nil), nil
}

func (s *service) Repay(ctx context.Context, custody core.Custody, market *core.Market, position *core.Position, amount uint64) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("service", "repay")

	m, now, err := s.prepare(market, amount)
	if err != nil {
		return nil, err
	}
	p := *position

	owed, err := lending.DebtAmount(&m, &p)
	if err != nil {
		return nil, err
	}

	repay := lending.RepayAmount(amount, owed)
	burn, err := lending.SharesToBurn(repay, p.BorrowedShares, owed)
	if err != nil {
		return nil, err
	}

	if p.BorrowedAmount, err = lending.Sub(p.BorrowedAmount, repay); err != nil {
		return nil, err
	}
	if p.BorrowedShares, err = lending.Sub(p.BorrowedShares, burn); err != nil {
		return nil, err
	}
	if m.TotalBorrows, err = lending.Sub(m.TotalBorrows, repay); err != nil {
		return nil, err
	}
	if m.TotalBorrowShares, err = lending.Sub(m.TotalBorrowShares, burn); err != nil {
		return nil, err
	}
	p.LastUpdateTime = now

	if err := custody.Transfer(ctx, &core.Transfer{
		From:    id.AccountID(p.UserID, m.BorrowAssetID),
		To:      m.BorrowVault,
		AssetID: m.BorrowAssetID,
		Amount:  repay,
		Signer:  p.UserID,
		Memo:    core.ActionTypeRepay.String(),
	}); err != nil {
		log.WithError(err).Infoln("transfer to borrow vault")
		return nil, err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyRequested, amount)

	*market, *position = m, p
	return s.event(&m, p.UserID, core.ActionTypeRepay, m.BorrowAssetID, repay, burn, now, extra), nil
}

func (s *service) AddLiquidity(ctx context.Context, custody core.Custody, market *core.Market, providerID string, amount uint64) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("service", "liquidity")

	m, now, err := s.prepare(market, amount)
	if err != nil {
		return nil, err
	}

	if err := custody.Transfer(ctx, &core.Transfer{
		From:    id.AccountID(providerID, m.BorrowAssetID),
		To:      m.BorrowVault,
		AssetID: m.BorrowAssetID,
		Amount:  amount,
		Signer:  providerID,
		Memo:    core.ActionTypeAddLiquidity.String(),
	}); err != nil {
		log.WithError(err).Infoln("transfer to borrow vault")
		return nil, err
	}

	*market = m
	return s.event(&m, providerID, core.ActionTypeAddLiquidity, m.BorrowAssetID, amount, 0, now, nil), nil
}

func (s *service) event(m *core.Market, userID string, action core.ActionType, assetID string, amount, shares uint64, now int64, extra core.TransactionExtraData) *core.Transaction {
	if extra == nil {
		extra = core.NewTransactionExtra()
	}

	extra.Put(core.TransactionKeyAssetID, assetID)
	return core.BuildTransaction(m, userID, action, amount, shares, now, extra)
}
