package modtree

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// GetResources returns the resources directly contained in this repository and,
// if recursive is set, those of every descendant repository. Resources of a
// container precede those of its children; children follow listing order.
func (r *Repository) GetResources(ctx context.Context, recursive bool) ([]*Resource, error) {
	return r.enumerate(ctx, recursive)
}

// GetResourcesAt resolves subpath to a repository and returns its resources.
// An empty slice is returned when subpath does not resolve or does not exist.
func (r *Repository) GetResourcesAt(ctx context.Context, subpath string, recursive bool) ([]*Resource, error) {
	repo, err := r.GetRepository(ctx, subpath)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return []*Resource{}, nil
	}

	exists, err := repo.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check repository '%s': %w", repo.path, err)
	}
	if !exists {
		return []*Resource{}, nil
	}

	return repo.enumerate(ctx, recursive)
}

func (r *Repository) enumerate(ctx context.Context, recursive bool) ([]*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listing, err := r.store.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate '%s': %w", r.path, err)
	}

	resources := make([]*Resource, 0, len(listing.Resources))
	for _, info := range listing.Resources {
		resources = append(resources, r.resources.put(info.Name, newResource(info, r)))
	}

	if !recursive || len(listing.Children) == 0 {
		return resources, nil
	}

	// Each subtree writes its own slot to keep listing order
	nested := make([][]*Resource, len(listing.Children))

	p := pool.New()
	if r.options.Concurrency > 0 {
		p = p.WithMaxGoroutines(r.options.Concurrency)
	}
	cp := p.WithContext(ctx).WithCancelOnError().WithFirstError()

	for i, name := range listing.Children {
		cp.Go(func(ctx context.Context) error {
			child, err := r.lookupRepository(ctx, name)
			if err != nil || child == nil {
				return err
			}

			nested[i], err = child.enumerate(ctx, true)
			return err
		})
	}

	if err := cp.Wait(); err != nil {
		return nil, err
	}

	for _, list := range nested {
		resources = append(resources, list...)
	}

	return resources, nil
}
