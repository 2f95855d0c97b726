package modtree

import (
	"context"
	"io"
	"strings"

	"github.com/mwantia/modtree/backend"
)

// Resource is a leaf of the tree. Its existence is captured when it is first
// looked up and is not re-validated against the backing store afterwards.
type Resource struct {
	name   string
	path   string
	exists bool

	repository *Repository
}

func newResource(info *backend.ResourceInfo, repo *Repository) *Resource {
	return &Resource{
		name:       info.Name,
		path:       info.Path,
		exists:     info.Exists,
		repository: repo,
	}
}

// Name returns the local name of the resource within its repository.
func (res *Resource) Name() string {
	return res.name
}

// Path returns the full name that identifies this resource globally.
func (res *Resource) Path() string {
	return res.path
}

func (res *Resource) String() string {
	return res.path
}

// Exists reports whether the backing store held this resource at lookup time.
func (res *Resource) Exists() bool {
	return res.exists
}

// Repository returns the repository containing this resource.
func (res *Resource) Repository() *Repository {
	return res.repository
}

// RelativePath returns the path of the resource relative to the root of its tree,
// or its full path if the containing repository is in absolute mode.
func (res *Resource) RelativePath() string {
	if res.repository.IsAbsolute() {
		return res.path
	}
	return res.repository.RelativePath() + res.name
}

// ModuleName returns the relative path without the extension of the resource name,
// e.g. "lib/util" for "lib/util.js".
func (res *Resource) ModuleName() string {
	if res.repository.IsAbsolute() {
		return strings.TrimSuffix(res.path, res.name) + stripExtension(res.name)
	}
	return res.repository.RelativePath() + stripExtension(res.name)
}

// Open streams the resource content from the backing store.
// Returns ErrNotExist for missing resources and ErrUnsupported if the store
// cannot stream content.
func (res *Resource) Open(ctx context.Context) (io.ReadCloser, error) {
	if !res.exists {
		return nil, ErrNotExist
	}

	opener, ok := res.repository.store.(backend.Opener)
	if !ok {
		return nil, ErrUnsupported
	}

	return opener.Open(ctx, res.name)
}
