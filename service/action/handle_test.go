package action

import (
	"context"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/pkg/id"
	accountsrv "lendpool/service/account"
	"lendpool/service/lending"
	marketsrv "lendpool/service/market"
	accountstore "lendpool/store/account"
	marketstore "lendpool/store/market"
	positionstore "lendpool/store/position"
	transactionstore "lendpool/store/transaction"
	transferstore "lendpool/store/transfer"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	depositAsset = "6cfe566e-4aad-470b-8c9a-2fd35b49c68d"
	borrowAsset  = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
)

// laggingTransactions misses committed rows for a number of lookups
type laggingTransactions struct {
	core.TransactionStore
	misses int
}

func (s *laggingTransactions) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	if s.misses > 0 {
		s.misses--
		return nil, gorm.ErrRecordNotFound
	}

	return s.TransactionStore.FindByTraceID(ctx, traceID)
}

type pool struct {
	markets      core.IMarketStore
	positions    core.IPositionStore
	transactions *laggingTransactions
	custody      core.ICustodyService
	actions      core.IActionService
	market       *core.Market
}

func newPool(t *testing.T) *pool {
	ctx := context.Background()
	database, err := db.Open(db.SqliteInMemory())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatal(err)
	}

	p := &pool{
		markets:      marketstore.Cache(marketstore.New(database), time.Minute),
		positions:    positionstore.New(database),
		transactions: &laggingTransactions{TransactionStore: transactionstore.New(database)},
		custody:      accountsrv.New(database, accountstore.New(database), transferstore.New(database)),
	}
	p.actions = New(database, p.markets, p.positions, p.transactions, p.custody, lending.New(nil), nil)

	p.market, err = marketsrv.New(database, p.markets, p.custody, core.MarketConfig{}).Create(ctx, &core.MarketCreate{
		Authority:      "admin",
		DepositAssetID: depositAsset,
		BorrowAssetID:  borrowAsset,
	})
	require.NoError(t, err)

	_, err = p.custody.Mint(ctx, uuid.New(), "provider", borrowAsset, 1000)
	require.NoError(t, err)
	p.handle(t, "provider", core.ActionTypeAddLiquidity, 1000)

	_, err = p.actions.OpenPosition(ctx, p.market.MarketID, "alice")
	require.NoError(t, err)
	_, err = p.custody.Mint(ctx, uuid.New(), "alice", depositAsset, 1000)
	require.NoError(t, err)

	return p
}

func (p *pool) request(userID string, action core.ActionType, amount uint64) *core.ActionRequest {
	return &core.ActionRequest{
		TraceID:  uuid.New(),
		MarketID: p.market.MarketID,
		UserID:   userID,
		Action:   action,
		Amount:   amount,
	}
}

func (p *pool) handle(t *testing.T, userID string, action core.ActionType, amount uint64) *core.Transaction {
	tx, err := p.actions.Handle(context.Background(), p.request(userID, action, amount))
	require.NoError(t, err)
	return tx
}

func (p *pool) balance(t *testing.T, accountID string) uint64 {
	balance, err := p.custody.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return balance
}

func TestHandleCommits(t *testing.T) {
	ctx := context.Background()
	p := newPool(t)

	// cached before the writes
	cached, err := p.markets.Find(ctx, p.market.MarketID)
	require.NoError(t, err)

	deposit := p.handle(t, "alice", core.ActionTypeDeposit, 500)
	assert.Equal(t, uint64(500), deposit.Shares)
	assert.NotZero(t, deposit.ID)

	borrow := p.handle(t, "alice", core.ActionTypeBorrow, 300)
	assert.Equal(t, uint64(300), borrow.Shares)

	assert.Equal(t, uint64(500), p.balance(t, id.AccountID("alice", depositAsset)))
	assert.Equal(t, uint64(300), p.balance(t, id.AccountID("alice", borrowAsset)))
	assert.Equal(t, uint64(500), p.balance(t, p.market.DepositVault))
	assert.Equal(t, uint64(700), p.balance(t, p.market.BorrowVault))

	market, err := p.markets.Find(ctx, p.market.MarketID)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), market.TotalDeposits)
	assert.Equal(t, uint64(300), market.TotalBorrows)
	assert.Equal(t, cached.Version+2, market.Version, "cache refreshed after commit")

	position, err := p.positions.Find(ctx, p.market.MarketID, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), position.DepositedAmount)
	assert.Equal(t, uint64(300), position.BorrowedAmount)

	p.handle(t, "alice", core.ActionTypeRepay, 100)
	p.handle(t, "alice", core.ActionTypeWithdraw, 200)

	position, err = p.positions.Find(ctx, p.market.MarketID, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(300), position.DepositedAmount)
	assert.Equal(t, uint64(200), position.BorrowedAmount)

	transactions, err := p.transactions.List(ctx, core.TransactionQuery{MarketID: p.market.MarketID})
	require.NoError(t, err)
	assert.Len(t, transactions, 5)
}

func TestHandleReplaysTrace(t *testing.T) {
	ctx := context.Background()
	p := newPool(t)

	req := p.request("alice", core.ActionTypeDeposit, 400)
	first, err := p.actions.Handle(ctx, req)
	require.NoError(t, err)

	again, err := p.actions.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, uint64(600), p.balance(t, id.AccountID("alice", depositAsset)))

	other := *req
	other.Amount = 100
	_, err = p.actions.Handle(ctx, &other)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, uint64(600), p.balance(t, id.AccountID("alice", depositAsset)))
}

func TestHandleTraceCommittedConcurrently(t *testing.T) {
	ctx := context.Background()
	p := newPool(t)

	req := p.request("alice", core.ActionTypeDeposit, 400)
	first, err := p.actions.Handle(ctx, req)
	require.NoError(t, err)

	// the lookup runs before the first request committed
	p.transactions.misses = 1
	again, err := p.actions.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	assert.Equal(t, uint64(600), p.balance(t, id.AccountID("alice", depositAsset)))
	assert.Equal(t, uint64(400), p.balance(t, p.market.DepositVault))

	market, err := p.markets.Find(ctx, p.market.MarketID)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), market.TotalDeposits)

	transactions, err := p.transactions.List(ctx, core.TransactionQuery{UserID: "alice"})
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestHandleRollsBack(t *testing.T) {
	ctx := context.Background()
	p := newPool(t)
	p.handle(t, "alice", core.ActionTypeDeposit, 500)

	before, err := p.markets.Find(ctx, p.market.MarketID)
	require.NoError(t, err)

	_, err = p.actions.Handle(ctx, p.request("alice", core.ActionTypeBorrow, 351))
	assert.ErrorIs(t, err, core.ErrExceedsMaximumLtv)

	_, err = p.actions.Handle(ctx, p.request("alice", core.ActionTypeDeposit, 501))
	assert.ErrorIs(t, err, core.ErrTransferFailed)

	_, err = p.actions.Handle(ctx, p.request("bob", core.ActionTypeDeposit, 1))
	assert.ErrorIs(t, err, core.ErrPositionNotFound)

	req := p.request("alice", core.ActionTypeDeposit, 1)
	req.MarketID = uuid.New()
	_, err = p.actions.Handle(ctx, req)
	assert.ErrorIs(t, err, core.ErrMarketNotFound)

	p.markets.Invalidate(ctx, p.market.MarketID)
	after, err := p.markets.Find(ctx, p.market.MarketID)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.TotalDeposits, after.TotalDeposits)
	assert.Zero(t, after.TotalBorrows)
	assert.Equal(t, uint64(500), p.balance(t, id.AccountID("alice", depositAsset)))
	assert.Zero(t, p.balance(t, id.AccountID("alice", borrowAsset)))
}

func TestOpenPositionTwice(t *testing.T) {
	ctx := context.Background()
	p := newPool(t)

	_, err := p.actions.OpenPosition(ctx, p.market.MarketID, "alice")
	assert.ErrorIs(t, err, core.ErrPositionExists)

	_, err = p.actions.OpenPosition(ctx, uuid.New(), "alice")
	assert.ErrorIs(t, err, core.ErrMarketNotFound)

	position, err := p.actions.OpenPosition(ctx, p.market.MarketID, "bob")
	require.NoError(t, err)
	assert.Zero(t, position.DepositedShares)
}
