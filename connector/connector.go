// Package connector defines the transport boundary between the mod
// management core and a Minecraft installation, plus a local-filesystem
// implementation. The core only assumes the capability set below; where the
// files actually live is the connector's business.
package connector

import (
	"context"
	"errors"
)

// ErrNotConnected reports an operation attempted before Connect succeeded.
var ErrNotConnected = errors.New("connector is not connected")

// Connector is the capability set the core needs to move bytes to and from
// an installation. Every operation is fallible; per-file failures are
// expected to be recovered by the caller, while a connection failure is
// fatal to the scan that needed it.
type Connector interface {
	// Connect establishes the transport session.
	Connect(ctx context.Context) error
	// Disconnect tears the session down. Safe to call when not connected.
	Disconnect(ctx context.Context) error
	// IsConnected reports whether the session is usable.
	IsConnected(ctx context.Context) bool
	// ListFiles returns the entries directly under dir, as remote paths.
	ListFiles(ctx context.Context, dir string) ([]string, error)
	// DownloadFile copies a remote file to a local path.
	DownloadFile(ctx context.Context, remotePath, localPath string) error
	// UploadFile copies a local file to a remote path.
	UploadFile(ctx context.Context, localPath, remotePath string) error
	// DeleteFile removes a remote file.
	DeleteFile(ctx context.Context, remotePath string) error
	// CreateDirectory creates a remote directory, parents included.
	CreateDirectory(ctx context.Context, remotePath string) error
}
