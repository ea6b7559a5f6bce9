package lending

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/pkg/id"
	"lendpool/pkg/lending"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	depositAsset = "6cfe566e-4aad-470b-8c9a-2fd35b49c68d"
	borrowAsset  = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	marketID     = "4c5e1a41-1ab6-4bfa-a5a2-f09c81f1a2a3"
)

type mockCustody struct {
	balances  map[string]uint64
	transfers []core.Transfer
	err       error
}

func newMockCustody() *mockCustody {
	return &mockCustody{balances: map[string]uint64{}}
}

func (c *mockCustody) Balance(_ context.Context, accountID string) (uint64, error) {
	return c.balances[accountID], nil
}

func (c *mockCustody) Transfer(_ context.Context, t *core.Transfer) error {
	if c.err != nil {
		return c.err
	}

	c.transfers = append(c.transfers, *t)
	if t.Amount == 0 {
		return nil
	}

	if c.balances[t.From] < t.Amount {
		return fmt.Errorf("%w: insufficient balance", core.ErrTransferFailed)
	}

	c.balances[t.From] -= t.Amount
	c.balances[t.To] += t.Amount
	return nil
}

func (c *mockCustody) fund(userID, assetID string, amount uint64) {
	c.balances[id.AccountID(userID, assetID)] += amount
}

func newMarket() *core.Market {
	return &core.Market{
		MarketID:           marketID,
		DepositAssetID:     depositAsset,
		BorrowAssetID:      borrowAsset,
		DepositVault:       "deposit-vault",
		BorrowVault:        "borrow-vault",
		FixedBorrowRateBps: 500,
		MaxLTVBps:          7000,
		LastAccrualTime:    1_600_000_000,
	}
}

func newService() core.ILendingService {
	return New(func() time.Time { return time.Unix(1_600_000_100, 0) })
}

func TestDepositBootstrap(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 1000)

	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}

	tx, err := s.Deposit(ctx, custody, market, position, 100)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), tx.Shares)
	assert.Equal(t, uint64(100), tx.Amount)
	assert.Equal(t, core.ActionTypeDeposit, tx.Action)
	assert.Equal(t, uint64(100), market.TotalDeposits)
	assert.Equal(t, uint64(100), market.TotalDepositShares)
	assert.Equal(t, uint64(100), position.DepositedAmount)
	assert.Equal(t, uint64(100), position.DepositedShares)
	assert.Equal(t, int64(1_600_000_100), position.LastUpdateTime)
	assert.Equal(t, int64(1_600_000_100), market.LastAccrualTime)
	assert.Equal(t, uint64(100), custody.balances["deposit-vault"])
}

func TestDepositProportional(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("bob", depositAsset, 50)

	market := newMarket()
	market.TotalDeposits = 200
	market.TotalDepositShares = 100
	position := &core.Position{MarketID: marketID, UserID: "bob"}

	tx, err := s.Deposit(ctx, custody, market, position, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), tx.Shares)
	assert.Equal(t, uint64(250), market.TotalDeposits)
	assert.Equal(t, uint64(125), market.TotalDepositShares)
	assert.Equal(t, uint64(25), position.DepositedShares)
}

func TestRejectsZeroAmount(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}

	_, err := s.Deposit(ctx, custody, market, position, 0)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = s.Withdraw(ctx, custody, market, position, 0)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = s.Borrow(ctx, custody, market, position, 0)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = s.Repay(ctx, custody, market, position, 0)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = s.AddLiquidity(ctx, custody, market, "alice", 0)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, custody.transfers)
}

func TestPausedMarket(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 100)

	market := newMarket()
	market.Status = core.MarketStatusPaused
	position := &core.Position{MarketID: marketID, UserID: "alice"}

	_, err := s.Deposit(ctx, custody, market, position, 100)
	assert.ErrorIs(t, err, core.ErrProtocolPaused)
	_, err = s.Repay(ctx, custody, market, position, 1)
	assert.ErrorIs(t, err, core.ErrProtocolPaused)
	assert.Empty(t, custody.transfers)
	assert.Zero(t, market.TotalDeposits)
}

func TestBorrowLTVGate(t *testing.T) {
	ctx := context.Background()
	s := newService()

	setup := func() (*mockCustody, *core.Market, *core.Position) {
		custody := newMockCustody()
		custody.fund("alice", depositAsset, 1000)
		custody.fund("lp", borrowAsset, 10_000)

		market := newMarket()
		position := &core.Position{MarketID: marketID, UserID: "alice"}

		_, err := s.Deposit(ctx, custody, market, position, 1000)
		require.NoError(t, err)
		_, err = s.AddLiquidity(ctx, custody, market, "lp", 10_000)
		require.NoError(t, err)
		return custody, market, position
	}

	t.Run("at the limit", func(t *testing.T) {
		custody, market, position := setup()
		tx, err := s.Borrow(ctx, custody, market, position, 700)
		require.NoError(t, err)
		assert.Equal(t, uint64(700), tx.Shares, "first borrower mints 1:1")
		assert.Equal(t, uint64(700), market.TotalBorrows)
		assert.Equal(t, uint64(700), position.BorrowedAmount)
		assert.Equal(t, uint64(700), custody.balances[id.AccountID("alice", borrowAsset)])
		assert.Equal(t, marketID, custody.transfers[len(custody.transfers)-1].Signer)
	})

	t.Run("over the limit", func(t *testing.T) {
		custody, market, position := setup()
		before, beforePosition := *market, *position
		_, err := s.Borrow(ctx, custody, market, position, 701)
		assert.ErrorIs(t, err, core.ErrExceedsMaximumLtv)
		assert.Equal(t, before, *market)
		assert.Equal(t, beforePosition, *position)
	})

	t.Run("counts existing debt", func(t *testing.T) {
		custody, market, position := setup()
		_, err := s.Borrow(ctx, custody, market, position, 600)
		require.NoError(t, err)
		_, err = s.Borrow(ctx, custody, market, position, 101)
		assert.ErrorIs(t, err, core.ErrExceedsMaximumLtv)
		_, err = s.Borrow(ctx, custody, market, position, 100)
		assert.NoError(t, err)
	})
}

func TestBorrowInsufficientLiquidity(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 1000)
	custody.fund("lp", borrowAsset, 10)

	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}
	_, err := s.Deposit(ctx, custody, market, position, 1000)
	require.NoError(t, err)
	_, err = s.AddLiquidity(ctx, custody, market, "lp", 10)
	require.NoError(t, err)

	_, err = s.Borrow(ctx, custody, market, position, 11)
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)
	assert.Zero(t, market.TotalBorrows)
}

func TestBorrowTransferFailure(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 1000)
	custody.fund("lp", borrowAsset, 1000)

	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}
	_, err := s.Deposit(ctx, custody, market, position, 1000)
	require.NoError(t, err)
	_, err = s.AddLiquidity(ctx, custody, market, "lp", 1000)
	require.NoError(t, err)

	before, beforePosition := *market, *position
	custody.err = fmt.Errorf("%w: custody offline", core.ErrTransferFailed)

	tx, err := s.Borrow(ctx, custody, market, position, 100)
	assert.Nil(t, tx)
	assert.True(t, errors.Is(err, core.ErrTransferFailed))
	assert.Equal(t, before.TotalBorrows, market.TotalBorrows)
	assert.Equal(t, before, *market)
	assert.Equal(t, beforePosition.BorrowedAmount, position.BorrowedAmount)
	assert.Equal(t, beforePosition, *position)
}

func TestRepayCap(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 1000)
	custody.fund("alice", borrowAsset, 100)
	custody.fund("lp", borrowAsset, 1000)

	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}
	_, err := s.Deposit(ctx, custody, market, position, 1000)
	require.NoError(t, err)
	_, err = s.AddLiquidity(ctx, custody, market, "lp", 1000)
	require.NoError(t, err)
	_, err = s.Borrow(ctx, custody, market, position, 50)
	require.NoError(t, err)

	tx, err := s.Repay(ctx, custody, market, position, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), tx.Amount)
	assert.Equal(t, uint64(50), tx.Shares)
	assert.Zero(t, position.BorrowedAmount)
	assert.Zero(t, position.BorrowedShares)
	assert.Zero(t, market.TotalBorrows)
	assert.Zero(t, market.TotalBorrowShares)
	// 100 funded + 50 borrowed - 50 repaid
	assert.Equal(t, uint64(100), custody.balances[id.AccountID("alice", borrowAsset)])

	last := custody.transfers[len(custody.transfers)-1]
	assert.Equal(t, uint64(50), last.Amount)
	assert.Equal(t, "alice", last.Signer)

	tx, err = s.Repay(ctx, custody, market, position, 10)
	require.NoError(t, err, "repaying nothing owed is a no-op")
	assert.Zero(t, tx.Amount)
	assert.Zero(t, custody.transfers[len(custody.transfers)-1].Amount)
	assert.Equal(t, uint64(100), custody.balances[id.AccountID("alice", borrowAsset)])
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 1000)
	custody.fund("lp", borrowAsset, 1000)

	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}
	_, err := s.Deposit(ctx, custody, market, position, 1000)
	require.NoError(t, err)

	_, err = s.Withdraw(ctx, custody, market, position, 1001)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	tx, err := s.Withdraw(ctx, custody, market, position, 400)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), tx.Shares)
	assert.Equal(t, uint64(600), market.TotalDeposits)
	assert.Equal(t, uint64(600), position.DepositedShares)
	assert.Equal(t, uint64(400), custody.balances[id.AccountID("alice", depositAsset)])
	assert.Equal(t, marketID, custody.transfers[len(custody.transfers)-1].Signer)

	_, err = s.AddLiquidity(ctx, custody, market, "lp", 1000)
	require.NoError(t, err)
	_, err = s.Borrow(ctx, custody, market, position, 350)
	require.NoError(t, err)

	// 350 debt needs 500 collateral
	transfers := len(custody.transfers)
	before, beforePosition := *market, *position
	_, err = s.Withdraw(ctx, custody, market, position, 101)
	assert.ErrorIs(t, err, core.ErrExceedsMaximumLtv)
	assert.Len(t, custody.transfers, transfers, "risk check runs before the transfer")
	assert.Equal(t, before, *market)
	assert.Equal(t, beforePosition, *position)

	_, err = s.Withdraw(ctx, custody, market, position, 100)
	assert.NoError(t, err)
	assert.Equal(t, uint64(500), position.DepositedAmount)
}

func TestDepositTransferFailure(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()

	market := newMarket()
	position := &core.Position{MarketID: marketID, UserID: "alice"}
	before := *market

	_, err := s.Deposit(ctx, custody, market, position, 100)
	assert.ErrorIs(t, err, core.ErrTransferFailed)
	assert.Equal(t, before, *market)
	assert.Zero(t, position.DepositedShares)
}

func TestConservation(t *testing.T) {
	ctx := context.Background()
	s := newService()
	custody := newMockCustody()
	market := newMarket()

	users := []string{"alice", "bob", "carol", "dave"}
	positions := map[string]*core.Position{}
	for _, u := range users {
		custody.fund(u, depositAsset, 1_000_000)
		positions[u] = &core.Position{MarketID: marketID, UserID: u}
	}

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		u := users[r.Intn(len(users))]
		amount := uint64(r.Intn(5000) + 1)
		if r.Intn(3) == 0 {
			_, err := s.Withdraw(ctx, custody, market, positions[u], amount)
			if err != nil {
				assert.ErrorIs(t, err, core.ErrInvalidAmount)
			}
		} else {
			_, err := s.Deposit(ctx, custody, market, positions[u], amount)
			require.NoError(t, err)
		}

		var sum uint64
		for _, p := range positions {
			derived, err := amountOf(market, p)
			require.NoError(t, err)
			sum += derived
		}

		require.LessOrEqual(t, sum, market.TotalDeposits)
		require.Equal(t, market.TotalDeposits, sum)
	}

	assert.Equal(t, market.TotalDeposits, custody.balances["deposit-vault"])
}

func amountOf(market *core.Market, position *core.Position) (uint64, error) {
	if market.TotalDepositShares == 0 {
		return 0, nil
	}

	return position.DepositedShares * market.TotalDeposits / market.TotalDepositShares, nil
}

func TestRepayAfterInterest(t *testing.T) {
	ctx := context.Background()
	custody := newMockCustody()
	custody.fund("alice", depositAsset, 1000)
	custody.fund("alice", borrowAsset, 1000)
	custody.balances["borrow-vault"] = 1000

	market := newMarket()
	market.FixedBorrowRateBps = 10000
	position := &core.Position{MarketID: marketID, UserID: "alice"}

	s := newService()
	_, err := s.Deposit(ctx, custody, market, position, 1000)
	require.NoError(t, err)
	_, err = s.Borrow(ctx, custody, market, position, 500)
	require.NoError(t, err)

	// a full year at 100% doubles the debt
	later := New(func() time.Time { return time.Unix(1_600_000_100+31_536_000, 0) })

	owed, err := amountOfDebt(later, market, position)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), owed)

	t.Run("owed above principal", func(t *testing.T) {
		m, p := *market, *position
		transfers := len(custody.transfers)

		_, err := later.Repay(ctx, custody, &m, &p, owed)
		assert.ErrorIs(t, err, core.ErrMathOverflow)
		assert.Equal(t, *market, m)
		assert.Equal(t, *position, p)
		assert.Len(t, custody.transfers, transfers)
	})

	t.Run("within principal", func(t *testing.T) {
		m, p := *market, *position

		tx, err := later.Repay(ctx, custody, &m, &p, 400)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), tx.Amount)
		assert.Equal(t, uint64(200), tx.Shares)
		assert.Equal(t, uint64(100), p.BorrowedAmount)
		assert.Equal(t, uint64(300), p.BorrowedShares)
		assert.Equal(t, uint64(600), m.TotalBorrows)
	})
}

func amountOfDebt(s core.ILendingService, market *core.Market, position *core.Position) (uint64, error) {
	m := *market
	if err := lending.AccrueInterest(&m, s.(*service).clock().Unix()); err != nil {
		return 0, err
	}

	return lending.DebtAmount(&m, position)
}
