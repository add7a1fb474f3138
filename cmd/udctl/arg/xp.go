package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var xpFull bool

var xpCmd = &cobra.Command{
	Use:   "xp",
	Short: "Show level progress, or the full gamification record with --full",
	Run: func(cmd *cobra.Command, args []string) {
		if xpFull {
			fmt.Println(prettyJSON(call("GetGamification")))
			return
		}
		fmt.Println(prettyJSON(call("GetLevelProgress")))
	},
}

func init() {
	xpCmd.Flags().BoolVar(&xpFull, "full", false, "print the full gamification record")
	rootCmd.AddCommand(xpCmd)
}
