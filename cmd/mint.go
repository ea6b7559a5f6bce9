package cmd

import (
	"lendpool/pkg/id"

	"github.com/spf13/cobra"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "credit a user custody account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		userID, _ := cmd.Flags().GetString("user")
		assetID, _ := cmd.Flags().GetString("asset")
		amount, _ := cmd.Flags().GetUint64("amount")
		if userID == "" || assetID == "" || amount == 0 {
			cmd.PrintErrln("user, asset and a positive amount are required")
			return
		}

		traceID, _ := cmd.Flags().GetString("trace")
		if traceID == "" {
			traceID = id.GenTraceID()
		}

		db := provideDatabase()
		defer db.Close()

		account, err := provideCustodyService(db).Mint(ctx, traceID, userID, assetID, amount)
		if err != nil {
			cmd.PrintErrln("mint failed:", err)
			return
		}

		cmd.Printf("account %s balance %d (trace %s)\n", account.AccountID, account.Balance, traceID)
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)
	mintCmd.Flags().StringP("user", "u", "", "user id")
	mintCmd.Flags().StringP("asset", "a", "", "asset id")
	mintCmd.Flags().Uint64P("amount", "q", 0, "amount in base units")
	mintCmd.Flags().String("trace", "", "trace id, repeat it to make the mint idempotent")
}
