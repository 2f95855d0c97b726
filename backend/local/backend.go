package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/mwantia/modtree/backend"
)

// LocalBackend exposes a directory tree of the local filesystem.
// Directories are containers, every other entry is a resource.
type LocalBackend struct {
	path string
}

func NewLocalBackend(path string) (*LocalBackend, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", path, err)
	}

	return &LocalBackend{
		path: abs,
	}, nil
}

// Returns the identifier name defined for this backend
func (*LocalBackend) Name() string {
	return "local"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (lb *LocalBackend) Open(ctx context.Context) error {
	// Verify the root directory exists
	info, err := os.Stat(lb.path)
	if err != nil {
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}

	// Ensure the root is a directory
	if !info.IsDir() {
		return fmt.Errorf("%w: '%s' is not a directory", backend.ErrOpenFailed, lb.path)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (lb *LocalBackend) Close(ctx context.Context) error {
	// The underlying filesystem persists independently
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (lb *LocalBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityEnumerate,
			backend.CapabilityStreaming,
			backend.CapabilityPersistent,
		},
		MaxObjectSize: 10737418240, // 10 GB
	}
}

// Root returns the store of the backend directory.
func (lb *LocalBackend) Root(ctx context.Context) (backend.Store, error) {
	return &DirStore{
		dir: lb.path,
	}, nil
}

// isAbsent reports whether err means that nothing exists at the requested path.
// Walking through a regular file yields ENOTDIR instead of ENOENT.
func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
