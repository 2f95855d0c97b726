package modtree

import (
	"context"
	"fmt"
)

// GetResource resolves subpath to a resource. A nil resource without error means
// an intermediate container could not be resolved. Otherwise a resource is returned
// even if it does not exist in the backing store; callers check Exists.
func (r *Repository) GetResource(ctx context.Context, subpath string) (*Resource, error) {
	repo, name, err := r.walk(ctx, subpath)
	if err != nil || repo == nil {
		return nil, err
	}

	return repo.lookupResource(ctx, name)
}

// GetRepository resolves subpath to a repository, or nil if a segment cannot be resolved.
// The segments "." and "" resolve to the current repository and ".." to its parent.
func (r *Repository) GetRepository(ctx context.Context, subpath string) (*Repository, error) {
	repo, name, err := r.walk(ctx, subpath)
	if err != nil || repo == nil {
		return nil, err
	}

	return repo.lookupRepository(ctx, name)
}

// walk follows every segment of subpath except the last one and returns the
// repository reached together with the final segment.
func (r *Repository) walk(ctx context.Context, subpath string) (*Repository, string, error) {
	separators := r.options.Separators

	repo := r
	last := 0
	for sep := findSeparator(subpath, 0, separators); sep >= 0; sep = findSeparator(subpath, last, separators) {
		next, err := repo.lookupRepository(ctx, subpath[last:sep])
		if err != nil {
			return nil, "", err
		}
		if next == nil {
			r.log.Debug("unresolved segment '%s' in '%s' below '%s'", subpath[last:sep], subpath, r.path)
			return nil, "", nil
		}

		repo = next
		last = sep + 1
	}

	return repo, subpath[last:], nil
}

// lookupRepository performs a single resolution step for a container name.
func (r *Repository) lookupRepository(ctx context.Context, name string) (*Repository, error) {
	switch name {
	case "", ".":
		return r, nil
	case "..":
		return r.parent, nil
	}

	if child := r.children.get(name); child != nil {
		return child, nil
	}

	store, err := r.store.CreateChild(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create child repository '%s' in '%s': %w", name, r.path, err)
	}
	if store == nil {
		return nil, nil
	}

	r.log.Debug("created child repository '%s' in '%s'", name, r.path)
	return r.children.put(name, r.newChild(store)), nil
}

// lookupResource performs a single resolution step for a resource name.
func (r *Repository) lookupResource(ctx context.Context, name string) (*Resource, error) {
	if res := r.resources.get(name); res != nil {
		return res, nil
	}

	info, err := r.store.LookupResource(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up resource '%s' in '%s': %w", name, r.path, err)
	}
	if info == nil {
		return nil, nil
	}

	return r.resources.put(name, newResource(info, r)), nil
}
