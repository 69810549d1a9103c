package manager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"mc-link/cache"
	"mc-link/compat"
)

// downloadedJar pairs a remote mod path with its local temp copy.
type downloadedJar struct {
	remotePath string
	localPath  string
}

// scanModsDirectory discovers and analyzes the jars under the mods
// directory, appending their identities to the instance.
func (m *Manager) scanModsDirectory(ctx context.Context, instance *Instance) error {
	files, err := m.conn.ListFiles(ctx, ModsDir)
	if err != nil {
		// A missing or unlistable mods directory is not fatal; the scan
		// reports an installation without mods.
		m.log.Warnw("Failed to list mods directory", zap.Error(err))
		instance.ModsExist = false
		return nil
	}
	instance.ModsExist = true

	jarFiles := make([]string, 0, len(files))
	for _, file := range files {
		if isJarFile(file) {
			jarFiles = append(jarFiles, file)
		}
	}
	if len(jarFiles) == 0 {
		return nil
	}

	m.log.Infow("Processing jar files",
		zap.Int("count", len(jarFiles)),
		zap.Bool("parallel", m.parallel),
	)

	tempDir, err := os.MkdirTemp("", "mc-link-scan-*")
	if err != nil {
		m.log.Warnw("Failed to create scan temp directory", zap.Error(err))
		return nil
	}
	defer os.RemoveAll(tempDir)

	var downloaded []downloadedJar
	if m.parallel {
		downloaded = m.downloadJarsParallel(ctx, jarFiles, tempDir)
	} else {
		downloaded = m.downloadJarsSequential(ctx, jarFiles, tempDir)
	}

	for _, jar := range downloaded {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		identity, ok := m.analyzeJar(jar)
		os.Remove(jar.localPath)
		if ok {
			instance.Mods = append(instance.Mods, identity)
		}
	}
	return nil
}

// downloadJarsParallel fans each download out to its own goroutine. A
// failed download logs and drops that one jar; the rest proceed.
func (m *Manager) downloadJarsParallel(ctx context.Context, jarFiles []string, tempDir string) []downloadedJar {
	results := make([]*downloadedJar, len(jarFiles))
	var succeeded atomic.Int64
	var wg sync.WaitGroup

	for i, jarFile := range jarFiles {
		wg.Add(1)
		go func(i int, remotePath string) {
			defer wg.Done()
			localPath := filepath.Join(tempDir, filepath.Base(remotePath))
			if err := m.conn.DownloadFile(ctx, remotePath, localPath); err != nil {
				m.log.Warnw("Failed to download jar",
					zap.String("file", remotePath),
					zap.Error(err),
				)
				return
			}
			results[i] = &downloadedJar{remotePath: remotePath, localPath: localPath}
			succeeded.Add(1)
		}(i, jarFile)
	}
	wg.Wait()

	if succeeded.Load() == 0 && len(jarFiles) > 0 {
		m.log.Warnw("Failed to download any jar files", zap.Int("total", len(jarFiles)))
	}

	downloaded := make([]downloadedJar, 0, succeeded.Load())
	for _, r := range results {
		if r != nil {
			downloaded = append(downloaded, *r)
		}
	}
	return downloaded
}

// downloadJarsSequential is the same pipeline without concurrency.
func (m *Manager) downloadJarsSequential(ctx context.Context, jarFiles []string, tempDir string) []downloadedJar {
	downloaded := make([]downloadedJar, 0, len(jarFiles))
	for _, jarFile := range jarFiles {
		if ctx.Err() != nil {
			break
		}
		localPath := filepath.Join(tempDir, filepath.Base(jarFile))
		if err := m.conn.DownloadFile(ctx, jarFile, localPath); err != nil {
			m.log.Warnw("Failed to download jar",
				zap.String("file", jarFile),
				zap.Error(err),
			)
			continue
		}
		downloaded = append(downloaded, downloadedJar{remotePath: jarFile, localPath: localPath})
	}
	return downloaded
}

// analyzeJar produces the identity for one downloaded jar, consulting the
// cache first. The returned identity carries the remote path, not the temp
// copy. A jar that cannot be opened as an archive is excluded.
func (m *Manager) analyzeJar(jar downloadedJar) (compat.ModIdentity, bool) {
	var hash string
	if m.jarCache != nil {
		h, err := cache.ComputeFileHash(jar.localPath)
		if err != nil {
			m.log.Warnw("Failed to hash jar", zap.String("file", jar.remotePath), zap.Error(err))
		} else {
			hash = h
			if identity, ok := m.jarCache.Get(hash, m.cacheTTLHours); ok {
				identity.FilePath = jar.remotePath
				return identity, true
			}
		}
	}

	identity, err := compat.ExtractJarInfo(jar.localPath)
	if err != nil {
		m.log.Warnw("Failed to read jar archive",
			zap.String("file", jar.remotePath),
			zap.Error(err),
		)
		return compat.ModIdentity{}, false
	}
	identity.FilePath = jar.remotePath

	if m.jarCache != nil && hash != "" {
		size := int64(0)
		if info, err := os.Stat(jar.localPath); err == nil {
			size = info.Size()
		}
		m.jarCache.Put(hash, filepath.Base(jar.localPath), size, identity)
	}

	return identity, true
}

func isJarFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jar")
}

// remoteModPath maps a plan action's file path onto the target's mods
// directory by basename.
func remoteModPath(sourcePath string) string {
	return filepath.Join(ModsDir, filepath.Base(sourcePath))
}
