package manager

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"mc-link/cache"
	"mc-link/compat"
)

// fakeConnector is an in-memory Connector for exercising scans and plan
// execution without touching a real installation.
type fakeConnector struct {
	connected     bool
	connectErr    error
	files         map[string][]byte
	dirs          map[string]bool
	failDownloads map[string]bool
	uploads       []string
	deletes       []string
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{
		files:         make(map[string][]byte),
		dirs:          map[string]bool{ModsDir: true},
		failDownloads: make(map[string]bool),
	}
}

func (f *fakeConnector) addFile(remotePath string, contents []byte) {
	f.files[remotePath] = contents
}

func (f *fakeConnector) Connect(ctx context.Context) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeConnector) Disconnect(ctx context.Context) error {
	f.connected = false
	return nil
}

func (f *fakeConnector) IsConnected(ctx context.Context) bool { return f.connected }

func (f *fakeConnector) ListFiles(ctx context.Context, dir string) ([]string, error) {
	if !f.dirs[dir] {
		return nil, fmt.Errorf("no such directory: %s", dir)
	}
	var out []string
	prefix := dir + "/"
	for path := range f.files {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeConnector) DownloadFile(ctx context.Context, remotePath, localPath string) error {
	if f.failDownloads[remotePath] {
		return errors.New("download refused")
	}
	contents, ok := f.files[remotePath]
	if !ok {
		return fmt.Errorf("no such file: %s", remotePath)
	}
	return os.WriteFile(localPath, contents, 0644)
}

func (f *fakeConnector) UploadFile(ctx context.Context, localPath, remotePath string) error {
	contents, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	f.files[remotePath] = contents
	f.uploads = append(f.uploads, remotePath)
	return nil
}

func (f *fakeConnector) DeleteFile(ctx context.Context, remotePath string) error {
	if _, ok := f.files[remotePath]; !ok {
		return fmt.Errorf("no such file: %s", remotePath)
	}
	delete(f.files, remotePath)
	f.deletes = append(f.deletes, remotePath)
	return nil
}

func (f *fakeConnector) CreateDirectory(ctx context.Context, remotePath string) error {
	f.dirs[remotePath] = true
	return nil
}

// fabricJarBytes builds a minimal fabric-flavored jar archive in memory.
func fabricJarBytes(t *testing.T, id, version string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("fabric.mod.json")
	if err != nil {
		t.Fatalf("failed to create descriptor: %v", err)
	}
	descriptor := fmt.Sprintf(`{"id":%q,"name":%q,"version":%q}`, id, id, version)
	if _, err := fw.Write([]byte(descriptor)); err != nil {
		t.Fatalf("failed to write descriptor: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish jar: %v", err)
	}
	return buf.Bytes()
}

func TestScanInventoriesMods(t *testing.T) {
	conn := newFakeConnector()
	conn.addFile("mods/alpha-1.0.jar", fabricJarBytes(t, "alpha", "1.0"))
	conn.addFile("mods/beta-2.0.jar", fabricJarBytes(t, "beta", "2.0"))
	conn.addFile("mods/notes.txt", []byte("not a jar"))
	conn.dirs[ConfigDir] = true

	m := New(conn, zap.NewNop().Sugar())
	instance, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if instance.ModCount() != 2 {
		t.Fatalf("ModCount() = %d, want 2", instance.ModCount())
	}
	for _, mod := range instance.Mods {
		if !strings.HasPrefix(mod.FilePath, "mods/") {
			t.Errorf("mod %s FilePath = %q, want a remote mods/ path", mod.ID, mod.FilePath)
		}
	}
	if !instance.ModsExist {
		t.Error("ModsExist = false")
	}
	if !instance.ConfigExists {
		t.Error("ConfigExists = false for a listable config dir")
	}
	if instance.ResourcePacksExist || instance.ShaderPacksExist {
		t.Error("absent auxiliary directories reported as existing")
	}
}

func TestScanExcludesFailedDownloads(t *testing.T) {
	conn := newFakeConnector()
	conn.addFile("mods/good-1.jar", fabricJarBytes(t, "good1", "1.0"))
	conn.addFile("mods/bad.jar", fabricJarBytes(t, "bad", "1.0"))
	conn.addFile("mods/good-2.jar", fabricJarBytes(t, "good2", "1.0"))
	conn.failDownloads["mods/bad.jar"] = true

	for _, parallel := range []bool{true, false} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			var m *Manager
			if parallel {
				m = New(conn, zap.NewNop().Sugar())
			} else {
				m = NewSequential(conn, zap.NewNop().Sugar())
			}
			instance, err := m.Scan(context.Background())
			if err != nil {
				t.Fatalf("Scan() error: %v", err)
			}
			if instance.ModCount() != 2 {
				t.Fatalf("ModCount() = %d, want 2", instance.ModCount())
			}
			for _, mod := range instance.Mods {
				if mod.ID == "bad" {
					t.Error("failed download still appeared in the inventory")
				}
			}
		})
	}
}

func TestScanExcludesCorruptJars(t *testing.T) {
	conn := newFakeConnector()
	conn.addFile("mods/fine.jar", fabricJarBytes(t, "fine", "1.0"))
	conn.addFile("mods/corrupt.jar", []byte("not a zip archive"))

	m := NewSequential(conn, zap.NewNop().Sugar())
	instance, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if instance.ModCount() != 1 || instance.Mods[0].ID != "fine" {
		t.Errorf("Mods = %+v, want only fine", instance.Mods)
	}
}

func TestScanMissingModsDirectory(t *testing.T) {
	conn := newFakeConnector()
	conn.dirs = map[string]bool{} // nothing listable

	m := New(conn, zap.NewNop().Sugar())
	instance, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if instance.ModsExist {
		t.Error("ModsExist = true for an unlistable mods directory")
	}
	if instance.HasMods() {
		t.Errorf("Mods = %+v, want empty", instance.Mods)
	}
}

func TestScanConnectFailure(t *testing.T) {
	conn := newFakeConnector()
	conn.connectErr = errors.New("refused")

	m := New(conn, zap.NewNop().Sugar())
	if _, err := m.Scan(context.Background()); err == nil {
		t.Error("Scan() succeeded despite a connection failure")
	}
}

func TestScanServesFromCache(t *testing.T) {
	jarCache, err := cache.New(t.TempDir(), 64, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("cache.New() error: %v", err)
	}

	// The remote bytes are not a valid archive, but their hash is seeded in
	// the cache; a hit must bypass extraction entirely.
	contents := []byte("opaque bytes, hash is all that matters")
	identity := testScanIdentity("cachedmod")
	jarCache.Put(cache.HashBytes(contents), "cachedmod.jar", int64(len(contents)), identity)

	conn := newFakeConnector()
	conn.addFile("mods/cachedmod.jar", contents)

	m := NewSequential(conn, zap.NewNop().Sugar()).WithCache(jarCache, 24)
	instance, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if instance.ModCount() != 1 {
		t.Fatalf("ModCount() = %d, want 1", instance.ModCount())
	}
	mod := instance.Mods[0]
	if mod.ID != "cachedmod" {
		t.Errorf("ID = %q, want cachedmod", mod.ID)
	}
	// The cached identity is rewritten to the remote path of this scan.
	if mod.FilePath != "mods/cachedmod.jar" {
		t.Errorf("FilePath = %q, want mods/cachedmod.jar", mod.FilePath)
	}
}

func TestScanPopulatesCache(t *testing.T) {
	jarCache, err := cache.New(t.TempDir(), 64, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("cache.New() error: %v", err)
	}

	contents := fabricJarBytes(t, "fresh", "1.0")
	conn := newFakeConnector()
	conn.addFile("mods/fresh-1.0.jar", contents)

	m := NewSequential(conn, zap.NewNop().Sugar()).WithCache(jarCache, 24)
	if _, err := m.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	got, ok := jarCache.Get(cache.HashBytes(contents), 24)
	if !ok {
		t.Fatal("scan did not cache the extracted identity")
	}
	if got.ID != "fresh" {
		t.Errorf("cached ID = %q, want fresh", got.ID)
	}
}

func TestExecuteSyncPlan(t *testing.T) {
	dir := t.TempDir()
	newJar := filepath.Join(dir, "newmod-1.0.jar")
	updatedJar := filepath.Join(dir, "drift-2.0.jar")
	if err := os.WriteFile(newJar, fabricJarBytes(t, "newmod", "1.0"), 0644); err != nil {
		t.Fatalf("failed to write jar: %v", err)
	}
	if err := os.WriteFile(updatedJar, fabricJarBytes(t, "drift", "2.0"), 0644); err != nil {
		t.Fatalf("failed to write jar: %v", err)
	}

	conn := newFakeConnector()
	conn.addFile("mods/obsolete-1.0.jar", fabricJarBytes(t, "obsolete", "1.0"))
	conn.addFile("mods/drift-1.0.jar", fabricJarBytes(t, "drift", "1.0"))

	plan := NewSyncPlan()
	plan.AddAction(SyncAction{Kind: ActionAdd, ModID: "newmod", NewPath: newJar})
	plan.AddAction(SyncAction{Kind: ActionRemove, ModID: "obsolete", CurrentPath: "mods/obsolete-1.0.jar"})
	plan.AddAction(SyncAction{Kind: ActionUpdate, ModID: "drift",
		CurrentPath: "mods/drift-1.0.jar", NewPath: updatedJar,
		FromVersion: "1.0", ToVersion: "2.0"})
	plan.AddAction(SyncAction{Kind: ActionKeep, ModID: "untouched"})

	m := New(conn, zap.NewNop().Sugar())
	if err := m.ExecuteSyncPlan(context.Background(), plan); err != nil {
		t.Fatalf("ExecuteSyncPlan() error: %v", err)
	}

	if _, ok := conn.files["mods/newmod-1.0.jar"]; !ok {
		t.Error("added mod missing on the target")
	}
	if _, ok := conn.files["mods/obsolete-1.0.jar"]; ok {
		t.Error("removed mod still present on the target")
	}
	if _, ok := conn.files["mods/drift-1.0.jar"]; ok {
		t.Error("old version still present after update")
	}
	if _, ok := conn.files["mods/drift-2.0.jar"]; !ok {
		t.Error("new version missing after update")
	}
	if len(conn.uploads) != 2 || len(conn.deletes) != 2 {
		t.Errorf("uploads = %v, deletes = %v", conn.uploads, conn.deletes)
	}
}

func TestExecuteSyncPlanAbortsOnFailure(t *testing.T) {
	conn := newFakeConnector()

	plan := NewSyncPlan()
	// The remove targets a file the connector does not have.
	plan.AddAction(SyncAction{Kind: ActionRemove, ModID: "ghost", CurrentPath: "mods/ghost.jar"})
	plan.AddAction(SyncAction{Kind: ActionAdd, ModID: "after", NewPath: "never-read.jar"})

	m := New(conn, zap.NewNop().Sugar())
	if err := m.ExecuteSyncPlan(context.Background(), plan); err == nil {
		t.Fatal("ExecuteSyncPlan() succeeded despite a failing action")
	}
	if len(conn.uploads) != 0 {
		t.Errorf("actions after the failure still ran: %v", conn.uploads)
	}
}

func TestIsJarFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"mods/a.jar", true},
		{"mods/A.JAR", true},
		{"mods/a.jar.disabled", false},
		{"mods/readme.txt", false},
	}
	for _, tt := range tests {
		if got := isJarFile(tt.path); got != tt.expected {
			t.Errorf("isJarFile(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func testScanIdentity(id string) compat.ModIdentity {
	return compat.ModIdentity{
		ID:      id,
		Name:    id,
		Version: "1.0",
		Enabled: true,
		Side:    compat.SideBoth,
		Loader:  compat.LoaderFabric,
	}
}
