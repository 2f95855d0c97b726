package modtree

import "github.com/mwantia/modtree/backend"

// Capabilities returns the capabilities of the backend this tree was opened from,
// or nil for trees built directly from a store.
func (r *Repository) Capabilities() *backend.BackendCapabilities {
	root := r.Root()
	if root.backend == nil {
		return nil
	}
	return root.backend.GetCapabilities()
}

// Backend returns the backend this tree was opened from, or nil.
func (r *Repository) Backend() backend.Backend {
	return r.Root().backend
}

// HasCapability reports whether the tree's backend advertises cap.
func (r *Repository) HasCapability(cap backend.BackendCapability) bool {
	return r.Capabilities().Contains(cap)
}
