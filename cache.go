package modtree

import (
	"runtime"
	"sync"
	"weak"

	"github.com/mwantia/modtree/log"
)

// childCache maps local names to weakly held child repositories.
// Entries whose repository has been collected are removed by a runtime cleanup.
type childCache struct {
	mu      sync.RWMutex
	entries map[string]weak.Pointer[Repository]
	log     *log.Logger
}

type childEntry struct {
	name string
	ptr  weak.Pointer[Repository]
}

func newChildCache(logger *log.Logger) *childCache {
	return &childCache{
		entries: make(map[string]weak.Pointer[Repository]),
		log:     logger,
	}
}

func (c *childCache) get(name string) *Repository {
	c.mu.RLock()
	ptr, ok := c.entries[name]
	c.mu.RUnlock()

	if !ok {
		return nil
	}
	return ptr.Value()
}

// put stores repo under name unless a live repository is already cached there,
// in which case the cached one is returned and repo is dropped.
func (c *childCache) put(name string, repo *Repository) *Repository {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ptr, ok := c.entries[name]; ok {
		if existing := ptr.Value(); existing != nil {
			return existing
		}
	}

	ptr := weak.Make(repo)
	c.entries[name] = ptr
	runtime.AddCleanup(repo, c.evict, childEntry{name: name, ptr: ptr})

	return repo
}

func (c *childCache) evict(entry childEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries[entry.name]; ok && current == entry.ptr {
		delete(c.entries, entry.name)
		c.log.Debug("evicted child repository '%s'", entry.name)
	}
}

func (c *childCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// resourceCache keeps every resource ever looked up in a repository.
type resourceCache struct {
	mu      sync.RWMutex
	entries map[string]*Resource
}

func newResourceCache() *resourceCache {
	return &resourceCache{
		entries: make(map[string]*Resource),
	}
}

func (c *resourceCache) get(name string) *Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[name]
}

func (c *resourceCache) put(name string, res *Resource) *Resource {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[name]; ok {
		return existing
	}

	c.entries[name] = res
	return res
}

func (c *resourceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
