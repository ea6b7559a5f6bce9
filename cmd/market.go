package cmd

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:     "market",
	Aliases: []string{"m"},
	Short:   "manage markets",
}

var createMarketCmd = &cobra.Command{
	Use:   "create",
	Short: "create a market with empty vaults",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var req core.MarketCreate
		req.Authority, _ = cmd.Flags().GetString("authority")
		req.DepositAssetID, _ = cmd.Flags().GetString("deposit")
		req.BorrowAssetID, _ = cmd.Flags().GetString("borrow")
		req.FixedBorrowRateBps, _ = cmd.Flags().GetUint64("rate")
		req.MaxLTVBps, _ = cmd.Flags().GetUint64("ltv")

		db := provideDatabase()
		defer db.Close()

		custody := provideCustodyService(db)
		market, err := provideMarketService(db, provideMarketStore(db), custody).Create(ctx, &req)
		if err != nil {
			cmd.PrintErrln("create market failed:", err)
			return
		}

		cmd.Println(string(market.Format()))
	},
}

func marketStatusCmd(use string, status core.MarketStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <market_id>",
		Short: use + " a market",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			db := provideDatabase()
			defer db.Close()

			custody := provideCustodyService(db)
			market, err := provideMarketService(db, provideMarketStore(db), custody).SetStatus(ctx, args[0], status)
			if err != nil {
				cmd.PrintErrln(use, "market failed:", err)
				return
			}

			cmd.Println(market.MarketID, market.Status.String())
		},
	}
}

var listMarketsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list markets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		db := provideDatabase()
		defer db.Close()

		markets, err := provideMarketStore(db).All(ctx)
		if err != nil {
			cmd.PrintErrln("list markets failed:", err)
			return
		}

		for _, m := range markets {
			cmd.Printf("%s %s deposits=%d borrows=%d rate=%d ltv=%d\n",
				m.MarketID, m.Status, m.TotalDeposits, m.TotalBorrows, m.FixedBorrowRateBps, m.MaxLTVBps)
		}
	},
}

var marketPositionsCmd = &cobra.Command{
	Use:   "positions <market_id>",
	Short: "list positions of a market valued at now",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		db := provideDatabase()
		defer db.Close()

		marketStore := provideMarketStore(db)
		market, err := marketStore.Find(ctx, args[0])
		if err != nil {
			cmd.PrintErrln("find market failed:", err)
			return
		}

		positions, err := providePositionStore(db).ListByMarket(ctx, market.MarketID)
		if err != nil {
			cmd.PrintErrln("list positions failed:", err)
			return
		}

		marketService := provideMarketService(db, marketStore, provideCustodyService(db))
		for _, p := range positions {
			_, deposit, debt, err := marketService.Preview(ctx, market, p)
			if err != nil {
				cmd.PrintErrln("preview position failed:", p.UserID, err)
				continue
			}

			cmd.Printf("%s deposit=%d debt=%d ltv=%s\n", p.UserID, deposit, debt, number.Ratio(debt, deposit, 4))
		}
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(createMarketCmd)
	marketCmd.AddCommand(marketStatusCmd("pause", core.MarketStatusPaused))
	marketCmd.AddCommand(marketStatusCmd("resume", core.MarketStatusOpen))
	marketCmd.AddCommand(listMarketsCmd)
	marketCmd.AddCommand(marketPositionsCmd)

	createMarketCmd.Flags().String("authority", "", "market authority")
	createMarketCmd.Flags().String("deposit", "", "deposit (collateral) asset id")
	createMarketCmd.Flags().String("borrow", "", "borrow asset id")
	createMarketCmd.Flags().Uint64("rate", 0, "fixed borrow rate in bps, default from config")
	createMarketCmd.Flags().Uint64("ltv", 0, "max ltv in bps, default from config")
}
