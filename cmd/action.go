package cmd

import (
	"fmt"
	"net/http"

	"lendpool/core"
	"lendpool/pkg/id"
	"lendpool/pkg/resthttp"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:   "action <market_id> <deposit|withdraw|borrow|repay|liquidity> <amount>",
	Short: "submit a lending action to the api server",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		action, ok := core.ParseActionType(args[1])
		if !ok {
			cmd.PrintErrln("unknown action", args[1])
			return
		}

		amount, err := cast.ToUint64E(args[2])
		if err != nil || amount == 0 {
			cmd.PrintErrln("invalid amount", args[2])
			return
		}

		token, _ := cmd.Flags().GetString("token")
		traceID, _ := cmd.Flags().GetString("trace")
		if traceID == "" {
			traceID = id.GenTraceID()
		}

		url := fmt.Sprintf("%s/api/markets/%s/%s", cfg.App.Endpoint, args[0], action)
		body := map[string]interface{}{
			"trace_id": traceID,
			"amount":   amount,
		}

		var transaction core.Transaction
		if _, err := resthttp.Execute(resthttp.WithToken(ctx, token), http.MethodPost, url, body, &transaction); err != nil {
			cmd.PrintErrln("action failed:", err)
			return
		}

		cmd.Printf("%s %s amount=%d shares=%d trace=%s\n", transaction.Action, transaction.MarketID, transaction.Amount, transaction.Shares, transaction.TraceID)
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().String("token", "", "bearer token, see the token command")
	actionCmd.Flags().String("trace", "", "trace id, reuse it to retry safely")
}
