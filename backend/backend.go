// Package backend defines the contracts a backing store implements to be
// exposed as a repository tree: the Backend lifecycle, the per-container Store
// hooks, and a Keyspace adapter for flat key-value stores.
package backend

import (
	"context"
	"io"
)

// Backend is used as lifecycle entrypoint for other backend implementations.
type Backend interface {
	// Name returns the identifier name defined for this backend
	Name() string
	// Open is part of the lifecycle behaviour and gets called before the root store is requested.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and releases connections or file handles.
	Close(ctx context.Context) error

	// GetCapabilities returns a list of capabilities supported by this backend.
	GetCapabilities() *BackendCapabilities

	// Root returns the store representing the top-level container of this backend.
	Root(ctx context.Context) (Store, error)
}

// Store is the backing-store side of a single container node.
// Implementations must be safe for concurrent use and cheap to create:
// CreateChild may be called more than once for the same name when lookups race.
type Store interface {
	// Name returns the local segment of this container.
	Name() string

	// Path returns the fully qualified identity of this container.
	Path() string

	// Exists reports whether the container is backed by real content.
	Exists(ctx context.Context) (bool, error)

	// LookupResource returns the resource named name directly inside this container.
	// A missing resource is reported as info with Exists set to false;
	// a nil info means the name can never be a resource here.
	LookupResource(ctx context.Context, name string) (*ResourceInfo, error)

	// CreateChild returns the child container named name.
	// It does not need to exist; a nil store means no container can live under that name.
	CreateChild(ctx context.Context, name string) (Store, error)

	// Enumerate lists the resources and child container names directly inside this container.
	Enumerate(ctx context.Context) (*Listing, error)
}

// Opener is implemented by stores able to stream resource content.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ResourceInfo describes a resource as seen by the backing store at lookup time.
type ResourceInfo struct {
	Name   string
	Path   string
	Exists bool
}

// Listing is the result of enumerating a single container.
type Listing struct {
	Resources []*ResourceInfo
	Children  []string
}
