package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mc-link/compat"
	"mc-link/config"
	"mc-link/logger"
	"mc-link/manager"
	"mc-link/ui"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check mod compatibility between client and server",
	Long: `Scan both installations and report which mods are missing on either
side, which versions disagree, and the overall compatibility verdict.`,
	Run: func(_ *cobra.Command, _ []string) {
		runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// scanBothSides scans the client and the server and returns both
// inventories. The two scans share one cache, so they run sequentially.
func scanBothSides(cfg config.Config) (*manager.Instance, *manager.Instance) {
	if cfg.ServerDir == "" {
		logger.Log.Fatal("Error: SERVER_DIR must be set to compare installations.")
	}

	jarCache := openJarCache(cfg)
	if jarCache != nil {
		defer jarCache.Close()
	}

	ctx := context.Background()

	clientMgr := newManager(cfg, cfg.ClientDir, "client", jarCache)
	clientInstance, err := clientMgr.Scan(ctx)
	if err != nil {
		logger.Log.Fatalw("Client scan failed", zap.Error(err))
	}

	serverMgr := newManager(cfg, cfg.ServerDir, "server", jarCache)
	serverInstance, err := serverMgr.Scan(ctx)
	if err != nil {
		logger.Log.Fatalw("Server scan failed", zap.Error(err))
	}

	return clientInstance, serverInstance
}

func runCheck() {
	cfg := bootstrap(".")
	compatCfg := loadCompatConfig(cfg)

	clientInstance, serverInstance := scanBothSides(cfg)
	result := compat.CheckCompatibility(clientInstance.Mods, serverInstance.Mods, compatCfg)
	printCompatResult(result, clientInstance.ModCount(), serverInstance.ModCount())
}

func printCompatResult(result compat.CompatResult, clientCount, serverCount int) {
	fmt.Println(ui.Heading("Compatibility check"))
	fmt.Printf("client mods: %d  server mods: %d\n\n", clientCount, serverCount)

	if len(result.MissingOnServer) > 0 {
		fmt.Println(ui.Heading("Missing on server"))
		for _, mod := range result.MissingOnServer {
			fmt.Printf("  %s (%s)\n", mod.ID, mod.Version)
		}
	}
	if len(result.MissingOnClient) > 0 {
		fmt.Println(ui.Heading("Missing on client"))
		for _, mod := range result.MissingOnClient {
			fmt.Printf("  %s (%s)\n", mod.ID, mod.Version)
		}
	}
	if len(result.VersionMismatches) > 0 {
		fmt.Println(ui.Heading("Version mismatches"))
		for _, mismatch := range result.VersionMismatches {
			fmt.Printf("  %s: client %s, server %s\n",
				mismatch.ModID, mismatch.ClientVersion, mismatch.ServerVersion)
		}
	}
	if len(result.IgnoredMods) > 0 {
		fmt.Printf("ignored: %d mods\n", len(result.IgnoredMods))
	}

	fmt.Printf("\nVerdict: %s\n", ui.Verdict(result.IsCompatible))
}
