// Package billy exposes any go-billy filesystem as a repository tree.
package billy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/mwantia/modtree/backend"
)

type BillyBackend struct {
	fs   gobilly.Filesystem
	name string
}

// NewBillyBackend wraps fs. The label is used to build globally unique paths.
func NewBillyBackend(fs gobilly.Filesystem, label string) *BillyBackend {
	return &BillyBackend{
		fs:   fs,
		name: label,
	}
}

// NewMemoryBackend returns a backend over an empty in-memory billy filesystem.
func NewMemoryBackend() *BillyBackend {
	return NewBillyBackend(memfs.New(), "memfs")
}

// NewDirectoryBackend returns a backend over the host directory dir.
func NewDirectoryBackend(dir string) *BillyBackend {
	return NewBillyBackend(osfs.New(dir), dir)
}

// Filesystem returns the wrapped filesystem, e.g. to populate it.
func (bb *BillyBackend) Filesystem() gobilly.Filesystem {
	return bb.fs
}

// Returns the identifier name defined for this backend
func (*BillyBackend) Name() string {
	return "billy"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (bb *BillyBackend) Open(ctx context.Context) error {
	info, err := bb.fs.Stat("/")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// memfs reports an empty root as missing
			return nil
		}
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: root of '%s' is not a directory", backend.ErrOpenFailed, bb.name)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (bb *BillyBackend) Close(ctx context.Context) error {
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (bb *BillyBackend) GetCapabilities() *backend.BackendCapabilities {
	caps := []backend.BackendCapability{
		backend.CapabilityEnumerate,
		backend.CapabilityStreaming,
	}

	if capable, ok := bb.fs.(gobilly.Capable); ok {
		if capable.Capabilities()&gobilly.WriteCapability != 0 {
			caps = append(caps, backend.CapabilityWritable)
		}
	}

	return &backend.BackendCapabilities{
		Capabilities: caps,
	}
}

// Root returns the store of the filesystem root.
func (bb *BillyBackend) Root(ctx context.Context) (backend.Store, error) {
	return &FilesystemStore{
		fs:    bb.fs,
		label: bb.name,
		dir:   "/",
	}, nil
}

func cleanDir(dir string) string {
	return path.Clean("/" + dir)
}
