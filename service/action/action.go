package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/pkg/id"
	"lendpool/pkg/metrics"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

type actionService struct {
	db           *db.DB
	markets      core.IMarketStore
	positions    core.IPositionStore
	transactions core.TransactionStore
	custody      core.ICustodyService
	lending      core.ILendingService
	metrics      *metrics.LendingMetrics
	clock        func() time.Time
}

// New new action service
func New(
	db *db.DB,
	markets core.IMarketStore,
	positions core.IPositionStore,
	transactions core.TransactionStore,
	custody core.ICustodyService,
	lending core.ILendingService,
	metrics *metrics.LendingMetrics,
) core.IActionService {
	return &actionService{
		db:           db,
		markets:      markets,
		positions:    positions,
		transactions: transactions,
		custody:      custody,
		lending:      lending,
		metrics:      metrics,
		clock:        time.Now,
	}
}

func (s *actionService) Handle(ctx context.Context, req *core.ActionRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"service":  "action",
		"action":   req.Action.String(),
		"trace_id": req.TraceID,
	})

	if err := Validate(req); err != nil {
		return nil, err
	}

	if t, err := s.replay(ctx, req); err != nil || t != nil {
		return t, err
	}

	start := time.Now()
	var transaction *core.Transaction
	err := s.db.Tx(func(tx *db.DB) error {
		market, err := s.loadMarket(ctx, tx, req.MarketID)
		if err != nil {
			return err
		}

		t, err := s.execute(ctx, tx, market, req)
		if err != nil {
			return err
		}

		if err := s.markets.Update(ctx, tx, market); err != nil {
			log.WithError(err).Errorln("markets.Update")
			return err
		}

		t.TraceID = req.TraceID
		if err := s.transactions.Create(ctx, tx, t); err != nil {
			log.WithError(err).Errorln("transactions.Create")
			return err
		}

		log.WithFields(structs.Map(market)).Debugln("market updated")
		transaction = t
		return nil
	})
	s.metrics.ObserveAction(req.Action.String(), err, time.Since(start))

	if err != nil {
		// a request with the same trace id committed while this one ran
		if t, rerr := s.replay(ctx, req); t != nil || errors.Is(rerr, core.ErrInvalidArgument) {
			return t, rerr
		}

		log.WithError(err).Infoln("action rejected")
		return nil, err
	}

	s.markets.Invalidate(ctx, req.MarketID)
	log.WithFields(logrus.Fields{
		"amount": transaction.Amount,
		"shares": transaction.Shares,
	}).Infoln("action done")
	return transaction, nil
}

// replay returns the committed transaction of the trace id, nil if there is none
func (s *actionService) replay(ctx context.Context, req *core.ActionRequest) (*core.Transaction, error) {
	t, err := s.transactions.FindByTraceID(ctx, req.TraceID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, nil
		}

		logger.FromContext(ctx).WithError(err).Errorln("transactions.FindByTraceID")
		return nil, err
	}

	if t.UserID != req.UserID || t.MarketID != req.MarketID || t.Action != req.Action || t.RequestedAmount() != req.Amount {
		return nil, fmt.Errorf("%w: trace id already used", core.ErrInvalidArgument)
	}

	return t, nil
}

func (s *actionService) execute(ctx context.Context, tx *db.DB, market *core.Market, req *core.ActionRequest) (*core.Transaction, error) {
	custody := s.custody.Bind(tx, req.TraceID)
	if req.Action == core.ActionTypeAddLiquidity {
		return s.lending.AddLiquidity(ctx, custody, market, req.UserID, req.Amount)
	}

	position, err := s.loadPosition(ctx, tx, req.MarketID, req.UserID)
	if err != nil {
		return nil, err
	}

	t, err := Dispatch(ctx, s.lending, custody, market, position, req)
	if err != nil {
		return nil, err
	}

	if err := s.positions.Update(ctx, tx, position); err != nil {
		return nil, err
	}

	return t, nil
}

// Dispatch runs the lending operation named by the request against the position
func Dispatch(ctx context.Context, lending core.ILendingService, custody core.Custody, market *core.Market, position *core.Position, req *core.ActionRequest) (*core.Transaction, error) {
	switch req.Action {
	case core.ActionTypeDeposit:
		return lending.Deposit(ctx, custody, market, position, req.Amount)
	case core.ActionTypeWithdraw:
		return lending.Withdraw(ctx, custody, market, position, req.Amount)
	case core.ActionTypeBorrow:
		return lending.Borrow(ctx, custody, market, position, req.Amount)
	case core.ActionTypeRepay:
		return lending.Repay(ctx, custody, market, position, req.Amount)
	default:
		return nil, fmt.Errorf("%w: unsupported action %s", core.ErrInvalidArgument, req.Action)
	}
}

// Validate check request fields
func Validate(req *core.ActionRequest) error {
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidArgument, err.Error())
	}

	if _, ok := core.ParseActionType(req.Action.String()); !ok {
		return fmt.Errorf("%w: unknown action %d", core.ErrInvalidArgument, req.Action)
	}

	return nil
}

func (s *actionService) OpenPosition(ctx context.Context, marketID, userID string) (*core.Position, error) {
	log := logger.FromContext(ctx).WithField("service", "open-position")

	market, err := s.findMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	if _, err := s.positions.Find(ctx, marketID, userID); err == nil {
		return nil, core.ErrPositionExists
	} else if !store.IsErrNotFound(err) {
		return nil, err
	}

	position := &core.Position{
		MarketID:       marketID,
		UserID:         userID,
		LastUpdateTime: s.clock().Unix(),
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.positions.Create(ctx, tx, position); err != nil {
			return err
		}

		for _, assetID := range []string{market.DepositAssetID, market.BorrowAssetID} {
			if _, err := s.custody.Open(ctx, tx, id.AccountID(userID, assetID), userID, assetID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if _, ferr := s.positions.Find(ctx, marketID, userID); ferr == nil {
			return nil, core.ErrPositionExists
		}

		log.WithError(err).Errorln("create position")
		return nil, err
	}

	return position, nil
}

func (s *actionService) findMarket(ctx context.Context, marketID string) (*core.Market, error) {
	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrMarketNotFound
		}

		return nil, err
	}

	return market, nil
}

func (s *actionService) loadMarket(ctx context.Context, tx *db.DB, marketID string) (*core.Market, error) {
	market, err := s.markets.Load(ctx, tx, marketID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrMarketNotFound
		}

		return nil, err
	}

	return market, nil
}

func (s *actionService) loadPosition(ctx context.Context, tx *db.DB, marketID, userID string) (*core.Position, error) {
	position, err := s.positions.Load(ctx, tx, marketID, userID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrPositionNotFound
		}

		return nil, err
	}

	return position, nil
}
