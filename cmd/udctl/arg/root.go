package arg

import (
	"fmt"
	"log"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/yusufnuru/undrift/internal/ipc"
)

var rootCmd = &cobra.Command{
	Use:   "udctl",
	Short: "udctl is the command line tool for undrift",
	Long: `udctl talks to the undrift daemon over D-Bus.
			You can start and end focus sessions, inspect stats, streaks,
			time tracking and gamification progress.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// call invokes a daemon method and returns its string reply. Every
// command exits on failure, so errors are fatal here.
func call(method string, args ...any) string {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Fatal("Failed to connect to session bus:", err)
	}
	defer conn.Close()

	obj := conn.Object(ipc.ServiceName, dbus.ObjectPath(ipc.ObjectPath))

	var result string
	err = obj.Call(ipc.InterfaceName+"."+method, 0, args...).Store(&result)
	if err != nil {
		log.Fatal("Failed to call method:", err)
	}
	return result
}
