package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest daily streak",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("GetStreak")))
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
}
