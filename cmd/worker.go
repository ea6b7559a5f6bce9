package cmd

import (
	"context"
	"errors"

	"lendpool/pkg/metrics"
	"lendpool/worker"
	"lendpool/worker/events"
	"lendpool/worker/market"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendpool job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		db := provideDatabase()
		defer db.Close()

		marketStore := provideMarketStore(db)
		positionStore := providePositionStore(db)
		custody := provideCustodyService(db)
		marketService := provideMarketService(db, marketStore, custody)

		reporter := market.New(provideConfig(), marketStore, positionStore, marketService, custody, metrics.Lending())
		relay := events.New(providePropertyStore(db), provideTransactionStore(db), metrics.Lending())

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return worker.RunJob(ctx, reporter)
		})

		workers := []worker.Worker{relay}
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Errorln("worker stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
