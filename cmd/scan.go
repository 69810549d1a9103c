package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mc-link/logger"
	"mc-link/ui"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan one installation and list its mods",
	Long: `Scan the mods directory of the client or server installation and
print every mod identity that could be extracted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		side, _ := cmd.Flags().GetString("side")
		runScan(side)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("side", "s", "client", "Which side to scan: client or server")
}

func runScan(side string) {
	cfg := bootstrap(".")

	root := cfg.ClientDir
	if side == "server" {
		if cfg.ServerDir == "" {
			logger.Log.Fatal("Error: SERVER_DIR must be set to scan the server side.")
		}
		root = cfg.ServerDir
	} else if side != "client" {
		logger.Log.Fatalw("Unknown side", zap.String("side", side))
	}

	jarCache := openJarCache(cfg)
	if jarCache != nil {
		defer jarCache.Close()
	}

	m := newManager(cfg, root, side, jarCache)
	instance, err := m.Scan(context.Background())
	if err != nil {
		logger.Log.Fatalw("Scan failed", zap.String("side", side), zap.Error(err))
	}

	fmt.Println(ui.Heading(fmt.Sprintf("Mods on %s (%d)", side, instance.ModCount())))
	for _, mod := range instance.Mods {
		fmt.Printf("  %-30s %-15s side=%-8s loader=%s\n", mod.ID, mod.Version, mod.Side, mod.Loader)
	}
	fmt.Printf("\nconfig: %v  resourcepacks: %v  shaderpacks: %v\n",
		instance.ConfigExists, instance.ResourcePacksExist, instance.ShaderPacksExist)
}
