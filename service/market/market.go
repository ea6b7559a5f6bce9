package market

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/pkg/lending"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
)

const (
	// DefaultFixedBorrowRateBps 5% a year
	DefaultFixedBorrowRateBps = 500
	// DefaultMaxLTVBps 70%
	DefaultMaxLTVBps = 7000
)

type service struct {
	db          *db.DB
	marketStore core.IMarketStore
	custody     core.ICustodyService
	defaults    core.MarketConfig
	clock       func() time.Time
}

// New new market service
func New(
	db *db.DB,
	marketStr core.IMarketStore,
	custody core.ICustodyService,
	defaults core.MarketConfig,
) core.IMarketService {
	if defaults.FixedBorrowRateBps == 0 {
		defaults.FixedBorrowRateBps = DefaultFixedBorrowRateBps
	}
	if defaults.MaxLTVBps == 0 {
		defaults.MaxLTVBps = DefaultMaxLTVBps
	}

	return &service{
		db:          db,
		marketStore: marketStr,
		custody:     custody,
		defaults:    defaults,
		clock:       time.Now,
	}
}

// Build fills defaults and derives ids of a new market
func Build(req *core.MarketCreate, defaults core.MarketConfig, now time.Time) (*core.Market, error) {
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidArgument, err.Error())
	}

	if req.DepositAssetID == req.BorrowAssetID {
		return nil, fmt.Errorf("%w: deposit and borrow asset must differ", core.ErrInvalidArgument)
	}

	rate, ltv := req.FixedBorrowRateBps, req.MaxLTVBps
	if rate == 0 {
		rate = defaults.FixedBorrowRateBps
	}
	if ltv == 0 {
		ltv = defaults.MaxLTVBps
	}

	if ltv > lending.BasisPoints {
		return nil, fmt.Errorf("%w: max ltv over 100%%", core.ErrInvalidArgument)
	}

	marketID := uuid.New()
	return &core.Market{
		MarketID:           marketID,
		Authority:          req.Authority,
		DepositAssetID:     req.DepositAssetID,
		BorrowAssetID:      req.BorrowAssetID,
		DepositVault:       uuid.Modify(marketID, "deposit_vault"),
		BorrowVault:        uuid.Modify(marketID, "borrow_vault"),
		FixedBorrowRateBps: rate,
		MaxLTVBps:          ltv,
		LastAccrualTime:    now.Unix(),
		Status:             core.MarketStatusOpen,
	}, nil
}

func (s *service) Create(ctx context.Context, req *core.MarketCreate) (*core.Market, error) {
	log := logger.FromContext(ctx).WithField("service", "market")

	market, err := Build(req, s.defaults, s.clock())
	if err != nil {
		return nil, err
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.marketStore.Create(ctx, tx, market); err != nil {
			return err
		}

		// vaults are owned by the market, which signs pool-to-user transfers
		if _, err := s.custody.Open(ctx, tx, market.DepositVault, market.MarketID, market.DepositAssetID); err != nil {
			return err
		}

		_, err := s.custody.Open(ctx, tx, market.BorrowVault, market.MarketID, market.BorrowAssetID)
		return err
	})
	if err != nil {
		log.WithError(err).Errorln("create market")
		return nil, err
	}

	log.Infoln("market created", market.MarketID)
	return market, nil
}

func (s *service) SetStatus(ctx context.Context, marketID string, status core.MarketStatus) (*core.Market, error) {
	var market *core.Market
	err := s.db.Tx(func(tx *db.DB) error {
		m, err := s.marketStore.Load(ctx, tx, marketID)
		if err != nil {
			if store.IsErrNotFound(err) {
				return core.ErrMarketNotFound
			}

			return err
		}

		market = m
		if m.Status == status {
			return nil
		}

		m.Status = status
		return s.marketStore.Update(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}

	s.marketStore.Invalidate(ctx, marketID)
	return market, nil
}

func (s *service) Accrued(ctx context.Context, market *core.Market) (*core.Market, error) {
	m := *market
	if err := lending.AccrueInterest(&m, s.clock().Unix()); err != nil {
		return nil, err
	}

	return &m, nil
}

func (s *service) Preview(ctx context.Context, market *core.Market, position *core.Position) (*core.Market, uint64, uint64, error) {
	m, err := s.Accrued(ctx, market)
	if err != nil {
		return nil, 0, 0, err
	}

	deposit, err := lending.DepositAmount(m, position)
	if err != nil {
		return nil, 0, 0, err
	}

	debt, err := lending.DebtAmount(m, position)
	if err != nil {
		return nil, 0, 0, err
	}

	return m, deposit, debt, nil
}
