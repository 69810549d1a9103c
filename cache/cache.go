// Package cache provides a content-addressed store for extracted mod
// metadata. Entries are keyed by the SHA-256 digest of the archive bytes,
// bounded by a byte-size budget with LRU eviction, aged out by TTL, and
// mirrored to disk as human-readable JSON so repeated scans of unchanged
// jars skip extraction entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"mc-link/compat"
)

const indexFileName = "index.json"

// Entry wraps one cached mod identity with its bookkeeping metadata.
type Entry struct {
	// Hash is the hex-encoded SHA-256 digest of the archive contents.
	Hash string `json:"hash"`
	// Filename is the original archive filename, kept for reference.
	Filename string `json:"filename"`
	// Size is the archive size in bytes; it counts against the budget.
	Size int64 `json:"size"`
	// Identity is the extracted mod metadata.
	Identity compat.ModIdentity `json:"mod_info"`
	// CachedAt is when the entry was created, in seconds since epoch.
	CachedAt int64 `json:"cached_at"`
	// LastAccessed is updated on every hit; drives LRU eviction.
	LastAccessed int64 `json:"last_accessed"`
}

// IsExpired reports whether the entry is older than the TTL.
func (e *Entry) IsExpired(ttlHours int) bool {
	age := time.Now().Unix() - e.CachedAt
	return age > int64(ttlHours)*3600
}

func (e *Entry) touch() {
	e.LastAccessed = time.Now().Unix()
}

// Stats summarizes cache occupancy.
type Stats struct {
	EntryCount     int
	TotalSizeBytes int64
	MaxSizeBytes   int64
}

// UsageFraction returns occupancy as a 0..1 fraction.
func (s Stats) UsageFraction() float64 {
	if s.MaxSizeBytes == 0 {
		return 0
	}
	return float64(s.TotalSizeBytes) / float64(s.MaxSizeBytes)
}

// JarCache maps archive content hashes to extracted mod identities.
//
// One scan owns the cache at a time; concurrent scans must either serialize
// or use separate caches. Storage failures are logged and treated as cache
// misses so a broken backing store never blocks scanning.
type JarCache struct {
	dir              string
	entries          map[string]*Entry
	maxSizeBytes     int64
	currentSizeBytes int64
	log              *zap.SugaredLogger
}

// New opens (or creates) a jar cache rooted at cacheDir with the given
// size budget. A previously persisted index is reloaded if present.
func New(cacheDir string, maxSizeMB int, log *zap.SugaredLogger) (*JarCache, error) {
	jarDir := filepath.Join(cacheDir, "jars")
	if err := os.MkdirAll(jarDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", jarDir, err)
	}

	c := &JarCache{
		dir:          jarDir,
		entries:      make(map[string]*Entry),
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		log:          log,
	}
	c.loadIndex()
	return c, nil
}

// ComputeFileHash returns the hex-encoded SHA-256 digest of a file's bytes.
func ComputeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes returns the hex-encoded SHA-256 digest of raw bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns a copy of the cached identity for hash, touching its recency.
// An expired entry is removed (with its backing file) and reported as a
// miss. A true miss has no side effects.
func (c *JarCache) Get(hash string, ttlHours int) (compat.ModIdentity, bool) {
	entry, ok := c.entries[hash]
	if !ok {
		return compat.ModIdentity{}, false
	}
	if entry.IsExpired(ttlHours) {
		c.removeEntry(hash)
		return compat.ModIdentity{}, false
	}
	entry.touch()
	return entry.Identity, true
}

// Put inserts a new entry, evicting least-recently-used entries first if the
// new size would exceed the budget. The entry is persisted before it becomes
// visible in the in-memory index.
func (c *JarCache) Put(hash, filename string, size int64, identity compat.ModIdentity) {
	for c.currentSizeBytes+size > c.maxSizeBytes && len(c.entries) > 0 {
		c.evictLRU()
	}

	now := time.Now().Unix()
	entry := &Entry{
		Hash:         hash,
		Filename:     filename,
		Size:         size,
		Identity:     identity,
		CachedAt:     now,
		LastAccessed: now,
	}

	if err := c.writeEntryFile(entry); err != nil {
		c.log.Warnw("Failed to persist cache entry", zap.String("hash", hash), zap.Error(err))
	}
	c.entries[hash] = entry
	c.currentSizeBytes += size
}

// Cleanup removes every entry older than the TTL and returns how many were
// dropped. Used for periodic maintenance, independent of Get.
func (c *JarCache) Cleanup(ttlHours int) int {
	removed := 0
	for hash, entry := range c.entries {
		if entry.IsExpired(ttlHours) {
			c.removeEntry(hash)
			removed++
		}
	}
	return removed
}

// Clear removes all entries and their backing files.
func (c *JarCache) Clear() {
	for hash := range c.entries {
		c.removeEntry(hash)
	}
}

// Stats returns current occupancy numbers.
func (c *JarCache) Stats() Stats {
	return Stats{
		EntryCount:     len(c.entries),
		TotalSizeBytes: c.currentSizeBytes,
		MaxSizeBytes:   c.maxSizeBytes,
	}
}

// SaveIndex flushes the in-memory index to disk. Callers should invoke it
// after a scan and before shutdown; Close does so as well.
func (c *JarCache) SaveIndex() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache index: %w", err)
	}
	indexPath := filepath.Join(c.dir, indexFileName)
	if err := os.WriteFile(indexPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return nil
}

// Close persists the index. The cache stays usable afterwards; Close exists
// so teardown paths cannot forget the flush.
func (c *JarCache) Close() {
	if err := c.SaveIndex(); err != nil {
		c.log.Warnw("Failed to save cache index on close", zap.Error(err))
	}
}

func (c *JarCache) evictLRU() {
	var oldestHash string
	var oldest int64
	for hash, entry := range c.entries {
		if oldestHash == "" || entry.LastAccessed < oldest ||
			(entry.LastAccessed == oldest && hash < oldestHash) {
			oldestHash = hash
			oldest = entry.LastAccessed
		}
	}
	if oldestHash != "" {
		c.removeEntry(oldestHash)
	}
}

func (c *JarCache) removeEntry(hash string) {
	entry, ok := c.entries[hash]
	if !ok {
		return
	}
	delete(c.entries, hash)
	c.currentSizeBytes -= entry.Size
	if c.currentSizeBytes < 0 {
		c.currentSizeBytes = 0
	}
	if err := os.Remove(c.entryPath(hash)); err != nil && !os.IsNotExist(err) {
		c.log.Warnw("Failed to remove cache entry file", zap.String("hash", hash), zap.Error(err))
	}
}

func (c *JarCache) loadIndex() {
	indexPath := filepath.Join(c.dir, indexFileName)
	data, err := os.ReadFile(indexPath)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warnw("Failed to read cache index, starting empty", zap.Error(err))
		}
		return
	}

	entries := make(map[string]*Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Warnw("Failed to parse cache index, starting empty", zap.Error(err))
		return
	}

	var total int64
	for _, entry := range entries {
		total += entry.Size
	}
	c.entries = entries
	c.currentSizeBytes = total
}

func (c *JarCache) writeEntryFile(entry *Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}
	if err := os.WriteFile(c.entryPath(entry.Hash), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (c *JarCache) entryPath(hash string) string {
	return filepath.Join(c.dir, hash+".json")
}

// FormatBytes renders a byte count in a human-readable unit.
func FormatBytes(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", bytes, units[unit])
	}
	return fmt.Sprintf("%.1f %s", size, units[unit])
}
