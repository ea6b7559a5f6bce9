package market

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/concurrency"
	"lendpool/pkg/metrics"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker reports market totals accrued to now as gauges
type Worker struct {
	worker.BaseJob
	MarketStore   core.IMarketStore
	PositionStore core.IPositionStore
	MarketService core.IMarketService
	Custody       core.ICustodyService
	Metrics       *metrics.LendingMetrics
}

// New new market worker
func New(cfg *core.Config, marketStore core.IMarketStore, positionStore core.IPositionStore, marketSrv core.IMarketService, custody core.ICustodyService, m *metrics.LendingMetrics) *Worker {
	job := Worker{
		MarketStore:   marketStore,
		PositionStore: positionStore,
		MarketService: marketSrv,
		Custody:       custody,
		Metrics:       m,
	}

	l, err := time.LoadLocation(cfg.App.Location)
	if err != nil {
		l = time.UTC
	}

	job.Cron = cron.New(cron.WithLocation(l))
	job.Cron.AddFunc("@every 30s", job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "market")

	markets, err := w.MarketStore.All(ctx)
	if err != nil {
		log.Errorln("fetch all markets error:", err)
		return err
	}

	limit := concurrency.NewGoLimit(8)
	for _, m := range markets {
		market := m
		limit.Go(func() {
			if err := w.report(ctx, market); err != nil {
				log.WithError(err).Errorln("report market", market.MarketID)
			}
		})
	}

	limit.Wait()
	return nil
}

func (w *Worker) report(ctx context.Context, market *core.Market) error {
	accrued, err := w.MarketService.Accrued(ctx, market)
	if err != nil {
		return err
	}

	liquidity, err := w.Custody.Balance(ctx, market.BorrowVault)
	if err != nil {
		return err
	}

	suppliers, borrowers, err := w.PositionStore.CountOfParticipants(ctx, market.MarketID)
	if err != nil {
		return err
	}

	id := market.MarketID
	w.Metrics.SetMarketTotal(id, "total_deposits", accrued.TotalDeposits)
	w.Metrics.SetMarketTotal(id, "total_borrows", accrued.TotalBorrows)
	w.Metrics.SetMarketTotal(id, "total_deposit_shares", accrued.TotalDepositShares)
	w.Metrics.SetMarketTotal(id, "total_borrow_shares", accrued.TotalBorrowShares)
	w.Metrics.SetMarketTotal(id, "liquidity", liquidity)
	w.Metrics.SetMarketTotal(id, "suppliers", uint64(suppliers))
	w.Metrics.SetMarketTotal(id, "borrowers", uint64(borrowers))
	return nil
}
