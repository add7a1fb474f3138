package arg

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var startMinutes int

var startCmd = &cobra.Command{
	Use:   "start [sites...]",
	Short: "Start a focus session blocking the given sites",
	Long: `Start a timed focus session. Sites are domains like "x.com";
			subdomains are blocked too. With no sites, the daemon's
			configured defaults are used.`,
	Run: func(cmd *cobra.Command, args []string) {
		sitesJSON := ""
		if len(args) > 0 {
			data, err := json.Marshal(args)
			if err != nil {
				log.Fatal("Failed to encode sites:", err)
			}
			sitesJSON = string(data)
		}
		call("StartSession", int32(startMinutes), sitesJSON)
		fmt.Printf("Focus session started: %d minutes\n", startMinutes)
	},
}

func init() {
	startCmd.Flags().IntVarP(&startMinutes, "minutes", "m", 25, "session duration in minutes")
	rootCmd.AddCommand(startCmd)
}
