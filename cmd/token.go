package cmd

import (
	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user_id>",
	Short: "issue an access token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		token, err := provideSession().Issue(cmd.Context(), args[0])
		if err != nil {
			cmd.PrintErrln("issue token failed:", err)
			return
		}

		cmd.Println(token)
		if qr, _ := cmd.Flags().GetBool("qrcode"); qr {
			qrcode.Fprint(cmd.OutOrStdout(), token)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Bool("qrcode", false, "print the token as qrcode")
}
