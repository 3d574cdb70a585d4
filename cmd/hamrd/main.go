// Command hamrd is the launcher daemon: it owns the plugin registry, the
// index store, the session engine, and the control socket the UI and
// plugin daemons connect to (spec §4.6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hamrd",
	Short: "Headless daemon core for the Hamr launcher",
	Long: `hamrd is the background process behind the Hamr launcher: plugin
discovery and lifecycle, the frecency-ranked search index, the session
state machine, and the JSON-RPC control socket the UI and plugin daemons
speak to. It never draws a window itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (default: $XDG_CONFIG_HOME/hamr/config.json)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
