package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current session record",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("GetSession")))
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
