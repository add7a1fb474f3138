package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var interruptCmd = &cobra.Command{
	Use:   "interrupt <domain>",
	Short: "Log a resisted interruption on a blocked domain",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("LogInterruption", args[0])))
	},
}

func init() {
	rootCmd.AddCommand(interruptCmd)
}
