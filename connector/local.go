package connector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalConnector manages an installation on the local filesystem. Remote
// paths are interpreted relative to the configured root directory.
type LocalConnector struct {
	root      string
	connected bool
}

// NewLocalConnector creates a connector rooted at the given directory.
func NewLocalConnector(root string) *LocalConnector {
	return &LocalConnector{root: root}
}

// Connect verifies the root directory exists and is a directory.
func (c *LocalConnector) Connect(_ context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("failed to open installation root %s: %w", c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("installation root %s is not a directory", c.root)
	}
	c.connected = true
	return nil
}

func (c *LocalConnector) Disconnect(_ context.Context) error {
	c.connected = false
	return nil
}

func (c *LocalConnector) IsConnected(_ context.Context) bool {
	return c.connected
}

// ListFiles lists the entries directly under dir. The returned paths stay
// relative to the root so they round-trip through the other operations.
func (c *LocalConnector) ListFiles(_ context.Context, dir string) ([]string, error) {
	if !c.connected {
		return nil, ErrNotConnected
	}
	entries, err := os.ReadDir(c.resolve(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func (c *LocalConnector) DownloadFile(_ context.Context, remotePath, localPath string) error {
	if !c.connected {
		return ErrNotConnected
	}
	return copyFile(c.resolve(remotePath), localPath)
}

func (c *LocalConnector) UploadFile(_ context.Context, localPath, remotePath string) error {
	if !c.connected {
		return ErrNotConnected
	}
	dest := c.resolve(remotePath)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", remotePath, err)
	}
	return copyFile(localPath, dest)
}

func (c *LocalConnector) DeleteFile(_ context.Context, remotePath string) error {
	if !c.connected {
		return ErrNotConnected
	}
	if err := os.Remove(c.resolve(remotePath)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", remotePath, err)
	}
	return nil
}

func (c *LocalConnector) CreateDirectory(_ context.Context, remotePath string) error {
	if !c.connected {
		return ErrNotConnected
	}
	if err := os.MkdirAll(c.resolve(remotePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", remotePath, err)
	}
	return nil
}

func (c *LocalConnector) resolve(remotePath string) string {
	if filepath.IsAbs(remotePath) {
		return remotePath
	}
	return filepath.Join(c.root, remotePath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		// Drop the partial copy so a failed transfer never looks complete.
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}
