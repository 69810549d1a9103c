package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for mc-link.
var rootCmd = &cobra.Command{
	Use:   "mc-link",
	Short: "Keep Minecraft client and server mod installations in sync",
	Long: `mc-link inspects the mods installed on a Minecraft client and server,
checks them for compatibility, and builds a plan to reconcile the
differences. The client installation is authoritative; the server is the
reconciliation target.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
