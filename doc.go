// Package modtree provides a virtual hierarchical namespace for module resolution.
//
// A tree maps a separator-delimited path such as "a/b/c" to either a container
// (Repository) or a leaf (Resource) without callers knowing whether the segments
// are directories, archive entries, database keys or in-memory objects. The
// backing store is supplied through the backend.Store hooks; this package owns
// path splitting, lazy child materialization, caching and enumeration.
//
// Basic usage:
//
//	mem := memory.NewMemoryBackend()
//	mem.Put("lib/util.js", []byte("..."))
//
//	root, _ := modtree.Open(ctx, mem)
//	defer root.Close(ctx)
//
//	res, _ := root.GetResource(ctx, "lib/util.js")
//	if res != nil && res.Exists() {
//	    fmt.Println(res.ModuleName()) // "lib/util"
//	}
//
//	// Enumerate everything below lib/
//	all, _ := root.GetResourcesAt(ctx, "lib", true)
//
// Child repositories are cached weakly and may be rebuilt after garbage
// collection; resources are cached for the lifetime of their repository and
// keep the existence they had when first looked up.
package modtree
