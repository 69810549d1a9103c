// Package manager drives scans of Minecraft installations and turns
// compatibility findings into executable sync plans. A Manager owns exactly
// one connector; the jar cache may be shared across sequential scans but
// never across concurrent ones.
package manager

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mc-link/cache"
	"mc-link/connector"
)

// Manager wraps a connector with scanning and synchronization operations
// for one installation side.
type Manager struct {
	conn          connector.Connector
	jarCache      *cache.JarCache
	cacheTTLHours int
	parallel      bool
	log           *zap.SugaredLogger
}

// New creates a manager for the given connector. Parallel scanning is on by
// default.
func New(conn connector.Connector, log *zap.SugaredLogger) *Manager {
	return &Manager{
		conn:     conn,
		parallel: true,
		log:      log,
	}
}

// NewSequential creates a manager with parallel scanning disabled, for
// deterministic ordering or transports that dislike concurrent transfers.
func NewSequential(conn connector.Connector, log *zap.SugaredLogger) *Manager {
	m := New(conn, log)
	m.parallel = false
	return m
}

// WithCache attaches a jar metadata cache consulted during scans. The TTL
// applies to cache reads made by this manager.
func (m *Manager) WithCache(jarCache *cache.JarCache, ttlHours int) *Manager {
	m.jarCache = jarCache
	m.cacheTTLHours = ttlHours
	return m
}

// Scan inventories the installation: it lists the mods directory, extracts
// (or cache-loads) every jar's identity, and probes the auxiliary
// directories for existence.
//
// Per-file failures exclude just that file from the inventory; only a
// connection failure aborts the scan.
func (m *Manager) Scan(ctx context.Context) (*Instance, error) {
	if !m.conn.IsConnected(ctx) {
		m.log.Debug("Not connected, attempting to connect")
		if err := m.conn.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	instance := &Instance{}

	if err := m.scanModsDirectory(ctx, instance); err != nil {
		return nil, err
	}

	m.log.Infow("Mod scan complete", zap.Int("mods", len(instance.Mods)))
	for _, mod := range instance.Mods {
		m.log.Debugw("Scanned mod",
			zap.String("mod_id", mod.ID),
			zap.String("mod_name", mod.Name),
			zap.String("version", mod.Version),
			zap.String("side", string(mod.Side)),
			zap.String("loader", string(mod.Loader)),
		)
	}

	instance.ConfigExists = m.directoryExists(ctx, ConfigDir)
	instance.ResourcePacksExist = m.directoryExists(ctx, ResourcePacksDir)
	instance.ShaderPacksExist = m.directoryExists(ctx, ShaderPacksDir)

	if m.jarCache != nil {
		if err := m.jarCache.SaveIndex(); err != nil {
			m.log.Warnw("Failed to save jar cache index", zap.Error(err))
		}
	}

	return instance, nil
}

// ExecuteSyncPlan replays a plan's actions against this manager's
// installation, which is always the reconciliation target (the server).
// Keep actions are no-ops. The first failing file operation aborts
// execution so a partial sync is visible to the caller.
func (m *Manager) ExecuteSyncPlan(ctx context.Context, plan *SyncPlan) error {
	if !m.conn.IsConnected(ctx) {
		if err := m.conn.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
	}

	for _, action := range plan.Actions {
		switch action.Kind {
		case ActionAdd:
			remotePath := remoteModPath(action.NewPath)
			if err := m.conn.UploadFile(ctx, action.NewPath, remotePath); err != nil {
				return fmt.Errorf("failed to add mod %s: %w", action.ModID, err)
			}
			m.log.Infow("Added mod", zap.String("mod_id", action.ModID), zap.String("path", remotePath))

		case ActionRemove:
			remotePath := remoteModPath(action.CurrentPath)
			if err := m.conn.DeleteFile(ctx, remotePath); err != nil {
				return fmt.Errorf("failed to remove mod %s: %w", action.ModID, err)
			}
			m.log.Infow("Removed mod", zap.String("mod_id", action.ModID), zap.String("path", remotePath))

		case ActionUpdate:
			oldPath := remoteModPath(action.CurrentPath)
			if err := m.conn.DeleteFile(ctx, oldPath); err != nil {
				m.log.Warnw("Failed to delete old mod version",
					zap.String("mod_id", action.ModID), zap.Error(err))
			}
			newPath := remoteModPath(action.NewPath)
			if err := m.conn.UploadFile(ctx, action.NewPath, newPath); err != nil {
				return fmt.Errorf("failed to update mod %s: %w", action.ModID, err)
			}
			m.log.Infow("Updated mod",
				zap.String("mod_id", action.ModID),
				zap.String("from", action.FromVersion),
				zap.String("to", action.ToVersion),
			)

		case ActionKeep:
			// Nothing to do.
		}
	}

	return nil
}

// directoryExists probes a directory by listing it; a listing that
// succeeds, even when empty, counts as existing.
func (m *Manager) directoryExists(ctx context.Context, dir string) bool {
	_, err := m.conn.ListFiles(ctx, dir)
	return err == nil
}
