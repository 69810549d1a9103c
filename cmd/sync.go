package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mc-link/compat"
	"mc-link/db"
	"mc-link/logger"
	"mc-link/manager"
	"mc-link/ui"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Plan (and optionally apply) a server reconciliation",
	Long: `Compare the client and server installations and build a sync plan that
makes the server match the client. Without --apply the plan is only
printed and recorded; with --apply its actions are executed against the
server.`,
	Run: func(cmd *cobra.Command, _ []string) {
		apply, _ := cmd.Flags().GetBool("apply")
		runSync(apply)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("apply", false, "Execute the plan instead of only printing it")
}

func runSync(apply bool) {
	cfg := bootstrap(".")
	compatCfg := loadCompatConfig(cfg)

	if cfg.ServerDir == "" {
		logger.Log.Fatal("Error: SERVER_DIR must be set to sync installations.")
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

	result := compat.CheckCompatibility(clientInstance.Mods, serverInstance.Mods, compatCfg)
	plan := manager.BuildPlan(result, clientInstance.Mods, serverInstance.Mods)

	// Plan actions carry remote mod paths; execution needs the client's
	// files locally, so point add/update sources at the client root.
	localizeClientPaths(plan, cfg.ClientDir)

	printPlan(plan)

	if !apply {
		if err := db.RecordSyncRun(plan, clientInstance.ModCount(), serverInstance.ModCount(), false); err != nil {
			logger.Log.Warnw("Failed to record sync plan", zap.Error(err))
		}
		return
	}

	if !plan.HasChanges() {
		fmt.Println("Nothing to do; server already matches the client.")
		return
	}

	if err := serverMgr.ExecuteSyncPlan(ctx, plan); err != nil {
		logger.Log.Fatalw("Sync failed", zap.Error(err))
	}
	if err := db.RecordSyncRun(plan, clientInstance.ModCount(), serverInstance.ModCount(), true); err != nil {
		logger.Log.Warnw("Failed to record sync run", zap.Error(err))
	}

	fmt.Printf("\nApplied %d actions: %d added, %d removed, %d updated.\n",
		plan.Summary.TotalMods-plan.Summary.ModsToKeep,
		plan.Summary.ModsToAdd, plan.Summary.ModsToRemove, plan.Summary.ModsToUpdate)
}

// localizeClientPaths resolves action source paths against the client root.
// Scanned identities carry paths relative to their installation; uploads
// read from the client's filesystem.
func localizeClientPaths(plan *manager.SyncPlan, clientRoot string) {
	for i := range plan.Actions {
		action := &plan.Actions[i]
		if action.Kind == manager.ActionAdd || action.Kind == manager.ActionUpdate {
			action.NewPath = joinIfRelative(clientRoot, action.NewPath)
		}
	}
}

func printPlan(plan *manager.SyncPlan) {
	fmt.Println(ui.Heading("Sync plan"))
	if len(plan.Actions) == 0 {
		fmt.Println("  (empty)")
	}
	for _, action := range plan.Actions {
		switch action.Kind {
		case manager.ActionAdd:
			fmt.Printf("  %s %s (%s)\n", ui.Action("add", "ADD   "), action.ModID, action.ToVersion)
		case manager.ActionRemove:
			fmt.Printf("  %s %s (%s)\n", ui.Action("remove", "REMOVE"), action.ModID, action.FromVersion)
		case manager.ActionUpdate:
			fmt.Printf("  %s %s (%s -> %s)\n", ui.Action("update", "UPDATE"), action.ModID, action.FromVersion, action.ToVersion)
		case manager.ActionKeep:
			fmt.Printf("  %s %s: %s\n", ui.Action("keep", "KEEP  "), action.ModID, action.Reason)
		}
	}
	fmt.Printf("\n%d to add, %d to remove, %d to update, %d kept. Projected verdict: %s\n",
		plan.Summary.ModsToAdd, plan.Summary.ModsToRemove, plan.Summary.ModsToUpdate,
		plan.Summary.ModsToKeep, ui.Verdict(plan.WillBeCompatible))
}
