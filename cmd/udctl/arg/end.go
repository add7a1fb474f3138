package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active focus session early",
	Run: func(cmd *cobra.Command, args []string) {
		call("EndSession")
		fmt.Println("Session ended")
	},
}

func init() {
	rootCmd.AddCommand(endCmd)
}
