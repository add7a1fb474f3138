package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check if the undrift daemon is running",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("undrift:", call("GetStatus"))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
