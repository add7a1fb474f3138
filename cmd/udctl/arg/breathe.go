package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var breatheDomain string

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Log a completed breathing exercise",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("LogBreathe", "complete", breatheDomain)))
	},
}

func init() {
	breatheCmd.Flags().StringVar(&breatheDomain, "domain", "", "domain that prompted the exercise")
	rootCmd.AddCommand(breatheCmd)
}
