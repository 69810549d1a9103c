package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mc-link/db"
	"mc-link/logger"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	Run: func(cmd *cobra.Command, _ []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		runHistory(limit)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 10, "How many runs to show")
}

func runHistory(limit int) {
	bootstrap(".")

	runs, err := db.RecentSyncRuns(limit)
	if err != nil {
		logger.Log.Fatalw("Failed to query sync history", zap.Error(err))
	}
	if len(runs) == 0 {
		fmt.Println("No sync runs recorded yet.")
		return
	}

	for _, run := range runs {
		mode := "planned"
		if run.Applied {
			mode = "applied"
		}
		fmt.Printf("%s  %s  client=%d server=%d  +%d -%d ~%d =%d\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), mode,
			run.ClientModCount, run.ServerModCount,
			run.ModsAdded, run.ModsRemoved, run.ModsUpdated, run.ModsKept,
		)
	}
}
