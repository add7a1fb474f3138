package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's tracking totals and session statistics",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("GetStats")))
	},
}

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Show the full time-tracking histogram",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("GetTimeTracking")))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(trackingCmd)
}
