package arg

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reflectDomain string

var reflectCmd = &cobra.Command{
	Use:   "reflect <text>",
	Short: "Save a reflection note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prettyJSON(call("SaveReflection", args[0], reflectDomain)))
	},
}

func init() {
	reflectCmd.Flags().StringVar(&reflectDomain, "domain", "", "domain the reflection relates to")
	rootCmd.AddCommand(reflectCmd)
}
