package cmd

import (
	"path/filepath"

	"go.uber.org/zap"

	"mc-link/cache"
	"mc-link/compat"
	"mc-link/config"
	"mc-link/connector"
	"mc-link/db"
	"mc-link/logger"
	"mc-link/manager"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	if err := db.InitDatabase(cfg.DatabasePath); err != nil {
		logger.Log.Fatalw("Failed to initialize database", zap.Error(err))
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	return cfg
}

// openJarCache constructs the jar metadata cache, or returns nil when
// caching is disabled or the cache directory is unusable. Scanning works
// either way.
func openJarCache(cfg config.Config) *cache.JarCache {
	if !cfg.CacheEnabled {
		return nil
	}
	jarCache, err := cache.New(cfg.CacheDir, cfg.CacheMaxSizeMB, logger.Log)
	if err != nil {
		logger.Log.Warnw("Failed to open jar cache, scanning without it", zap.Error(err))
		return nil
	}
	return jarCache
}

// newManager builds a manager for one installation root, scoped with a
// side label for its log output.
func newManager(cfg config.Config, root, side string, jarCache *cache.JarCache) *manager.Manager {
	conn := connector.NewLocalConnector(root)
	log := logger.Log.With(zap.String("side", side))

	var m *manager.Manager
	if cfg.ParallelScan {
		m = manager.New(conn, log)
	} else {
		m = manager.NewSequential(conn, log)
	}
	if jarCache != nil {
		m = m.WithCache(jarCache, cfg.CacheTTLHours)
	}
	return m
}

// joinIfRelative resolves a path against root unless it is already absolute.
func joinIfRelative(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// loadCompatConfig resolves the compatibility profile: the configured path
// when set, otherwise a default profile installed under the cache dir.
func loadCompatConfig(cfg config.Config) compat.CompatConfig {
	path := cfg.ProfilePath
	if path == "" {
		path = filepath.Join(cfg.CacheDir, "profile.toml")
	}
	profile, err := config.EnsureProfile(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load compatibility profile",
			zap.String("path", path), zap.Error(err))
	}
	logger.Log.Infow("Loaded compatibility profile",
		zap.String("profile", profile.Name),
		zap.Int("rules", len(profile.Rules)),
		zap.Int("ignored", len(profile.Ignore)),
	)
	return profile.CompatConfig()
}
