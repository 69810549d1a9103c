package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mc-link/cache"
	"mc-link/config"
	"mc-link/logger"
)

// cacheCmd groups jar cache maintenance commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the jar metadata cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache occupancy",
	Run: func(_ *cobra.Command, _ []string) {
		withCache(func(jarCache *cache.JarCache, _ config.Config) {
			stats := jarCache.Stats()
			fmt.Printf("entries: %d\n", stats.EntryCount)
			fmt.Printf("size:    %s of %s (%.0f%%)\n",
				cache.FormatBytes(stats.TotalSizeBytes),
				cache.FormatBytes(stats.MaxSizeBytes),
				stats.UsageFraction()*100,
			)
		})
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired cache entries",
	Run: func(_ *cobra.Command, _ []string) {
		withCache(func(jarCache *cache.JarCache, cfg config.Config) {
			removed := jarCache.Cleanup(cfg.CacheTTLHours)
			fmt.Printf("Removed %d expired entries.\n", removed)
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	Run: func(_ *cobra.Command, _ []string) {
		withCache(func(jarCache *cache.JarCache, _ config.Config) {
			jarCache.Clear()
			fmt.Println("Cache cleared.")
		})
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheCleanupCmd, cacheClearCmd)
}

func withCache(fn func(*cache.JarCache, config.Config)) {
	cfg := bootstrap(".")
	if !cfg.CacheEnabled {
		logger.Log.Fatal("Error: the cache is disabled (CACHE_ENABLED=false).")
	}
	jarCache, err := cache.New(cfg.CacheDir, cfg.CacheMaxSizeMB, logger.Log)
	if err != nil {
		logger.Log.Fatalw("Failed to open jar cache", zap.Error(err))
	}
	defer jarCache.Close()
	fn(jarCache, cfg)
}
