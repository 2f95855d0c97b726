package modtree

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mwantia/modtree/backend"
	"github.com/mwantia/modtree/log"
)

// Repository is a container node of the tree. It owns a weak cache of child
// repositories and a persistent cache of resources, and resolves separator
// delimited paths relative to itself. A Repository is safe for concurrent use.
type Repository struct {
	store  backend.Store
	parent *Repository

	name string
	path string

	absolute atomic.Bool

	options *RepositoryOptions
	log     *log.Logger

	children  *childCache
	resources *resourceCache

	// Only set on roots; ownsBackend marks the root returned by Open.
	backend     backend.Backend
	ownsBackend bool
	ownsLogger  bool
	closed      atomic.Bool
}

// NewRepository creates a root repository on top of store.
func NewRepository(store backend.Store, opts ...RepositoryOption) (*Repository, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	options := newDefaultRepositoryOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if options.Separators == "" {
		return nil, ErrInvalidSeparators
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("modtree", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	repo := newRepository(store, nil, options, logger)
	repo.absolute.Store(options.Absolute)
	repo.ownsLogger = options.Logger == nil

	return repo, nil
}

// Open opens b and returns the repository for its root store.
// Closing the returned repository closes b.
func Open(ctx context.Context, b backend.Backend, opts ...RepositoryOption) (*Repository, error) {
	if err := b.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open backend '%s': %w", b.Name(), err)
	}

	store, err := b.Root(ctx)
	if err != nil {
		_ = b.Close(ctx)
		return nil, fmt.Errorf("failed to get root of backend '%s': %w", b.Name(), err)
	}

	repo, err := NewRepository(store, opts...)
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	repo.backend = b
	repo.ownsBackend = true
	repo.setLogger(repo.log.Named(b.Name()))
	repo.log.Info("opened backend '%s' at '%s'", b.Name(), repo.path)

	return repo, nil
}

func newRepository(store backend.Store, parent *Repository, options *RepositoryOptions, logger *log.Logger) *Repository {
	return &Repository{
		store:     store,
		parent:    parent,
		name:      store.Name(),
		path:      store.Path(),
		options:   options,
		log:       logger,
		children:  newChildCache(logger),
		resources: newResourceCache(),
	}
}

// setLogger must be called before the repository is shared.
func (r *Repository) setLogger(logger *log.Logger) {
	r.log = logger
	r.children.log = logger
}

func (r *Repository) newChild(store backend.Store) *Repository {
	child := newRepository(store, r, r.options, r.log)
	child.absolute.Store(r.absolute.Load())
	return child
}

// Close releases what a root owns: the backend of a root returned by Open and
// the log file of a logger created from the log options.
// It is a no-op for every other repository.
func (r *Repository) Close(ctx context.Context) error {
	if !r.ownsBackend && !r.ownsLogger {
		return nil
	}

	if r.closed.Swap(true) {
		return ErrClosed
	}

	var err error
	if r.ownsBackend {
		r.log.Info("closing backend '%s'", r.backend.Name())
		err = r.backend.Close(ctx)
	}
	if r.ownsLogger {
		err = errors.Join(err, r.log.Close())
	}

	return err
}

// Name returns the local name of this repository within its parent.
func (r *Repository) Name() string {
	return r.name
}

// Path returns the full name that identifies this repository globally.
func (r *Repository) Path() string {
	return r.path
}

// String returns the repository path.
func (r *Repository) String() string {
	return r.path
}

// Store returns the backing store of this repository.
func (r *Repository) Store() backend.Store {
	return r.store
}

// Exists reports whether the backing store holds this container.
func (r *Repository) Exists(ctx context.Context) (bool, error) {
	return r.store.Exists(ctx)
}

// Parent returns the containing repository, or nil for a root.
func (r *Repository) Parent() *Repository {
	return r.parent
}

// Root returns the top-most ancestor of this repository.
func (r *Repository) Root() *Repository {
	root := r
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// IsRoot reports whether this repository has no parent.
func (r *Repository) IsRoot() bool {
	return r.parent == nil
}

// AsRoot returns a root repository over the same store. The returned repository
// has its own caches; r and its ancestors are left untouched. For a root, r is returned.
func (r *Repository) AsRoot() *Repository {
	if r.parent == nil {
		return r
	}

	root := newRepository(r.store, nil, r.options, r.log)
	root.absolute.Store(r.absolute.Load())
	root.backend = r.Root().backend

	return root
}

// SetAbsolute switches this repository in or out of absolute mode. Children created
// afterwards inherit the flag; existing children keep their own.
func (r *Repository) SetAbsolute(absolute bool) {
	r.absolute.Store(absolute)
}

// IsAbsolute reports whether relative path operations return the absolute path.
func (r *Repository) IsAbsolute() bool {
	return r.absolute.Load()
}

// RelativePath returns the path of this repository relative to its root, built from
// the local names of its ancestors with a trailing separator. In absolute mode the
// full path is returned unmodified.
func (r *Repository) RelativePath() string {
	if r.absolute.Load() {
		return r.path
	}
	if r.parent == nil {
		return ""
	}

	var b strings.Builder
	r.writeRelativePath(&b)
	return b.String()
}

// ModuleName is an alias for RelativePath.
func (r *Repository) ModuleName() string {
	return r.RelativePath()
}

func (r *Repository) writeRelativePath(b *strings.Builder) {
	if r.parent == nil {
		return
	}

	r.parent.writeRelativePath(b)
	b.WriteString(r.name)
	b.WriteByte(r.options.Separators[0])
}
