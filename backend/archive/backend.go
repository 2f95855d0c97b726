// Package archive exposes the entries of a zip file as a read-only repository tree.
// Entries compressed with zstd (method 93) are supported next to store and deflate.
package archive

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/mwantia/modtree/backend"
	"github.com/tidwall/btree"
)

type ArchiveBackend struct {
	mu   sync.RWMutex
	path string

	reader *zip.ReadCloser
	// Entry index by key; directories are stored as markers ending in "/" with a nil file
	entries *btree.Map[string, *zip.File]
}

func NewArchiveBackend(file string) (*ArchiveBackend, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", file, err)
	}

	return &ArchiveBackend{
		path: abs,
	}, nil
}

// Returns the identifier name defined for this backend
func (*ArchiveBackend) Name() string {
	return "archive"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (ab *ArchiveBackend) Open(ctx context.Context) error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	if ab.reader != nil {
		return nil
	}

	reader, err := zip.OpenReader(ab.path)
	if err != nil {
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	entries := btree.NewMap[string, *zip.File](0)
	for _, file := range reader.File {
		key, isDir := entryKey(file.Name)
		if key == "" {
			continue
		}

		if isDir {
			entries.Set(key+backend.KeySeparator, nil)
			continue
		}
		entries.Set(key, file)
	}

	ab.reader = reader
	ab.entries = entries

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (ab *ArchiveBackend) Close(ctx context.Context) error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	if ab.reader == nil {
		return nil
	}

	err := ab.reader.Close()
	ab.reader = nil
	ab.entries = nil

	return err
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (ab *ArchiveBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityEnumerate,
			backend.CapabilityStreaming,
			backend.CapabilityPersistent,
			backend.CapabilityArchive,
		},
	}
}

// Root returns the top-level container of the archive.
func (ab *ArchiveBackend) Root(ctx context.Context) (backend.Store, error) {
	return backend.NewKeyspaceStore(ab, "zip:"+filepath.ToSlash(ab.path)+"!/"), nil
}

// Len returns the number of indexed entries including directory markers.
func (ab *ArchiveBackend) Len() int {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.entries == nil {
		return 0
	}
	return ab.entries.Len()
}

// entryKey normalizes a zip entry name into a keyspace key.
// Entries escaping the archive root are dropped.
func entryKey(name string) (string, bool) {
	isDir := strings.HasSuffix(name, "/")

	name = strings.ReplaceAll(name, "\\", "/")
	if clean := path.Clean(name); clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	key := strings.Trim(path.Clean("/"+name), "/")
	return key, isDir
}
