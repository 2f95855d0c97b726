package memory

import (
	"context"
	"sync"

	"github.com/mwantia/modtree/backend"
	"github.com/tidwall/btree"
)

// MemoryBackend keeps every object in an ordered in-memory map.
// Keys use "/" as separator; containers exist implicitly as key prefixes
// or explicitly through Mkdir markers.
type MemoryBackend struct {
	mu sync.RWMutex

	keys *btree.Map[string, []byte]
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		keys: btree.NewMap[string, []byte](0),
	}
}

// Returns the identifier name defined for this backend
func (*MemoryBackend) Name() string {
	return "memory"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (mb *MemoryBackend) Open(ctx context.Context) error {
	// No initialization needed - backend is ready to use
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (mb *MemoryBackend) Close(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.keys.Clear()
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (mb *MemoryBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityEnumerate,
			backend.CapabilityStreaming,
			backend.CapabilityWritable,
		},
		MaxObjectSize: 10485760, // 10 MB
	}
}

// Root returns the top-level container of this backend.
func (mb *MemoryBackend) Root(ctx context.Context) (backend.Store, error) {
	return backend.NewKeyspaceStore(mb, "memory:/"), nil
}

// Put stores data under key, replacing any previous content.
func (mb *MemoryBackend) Put(key string, data []byte) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	buffer := make([]byte, len(data))
	copy(buffer, data)

	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.keys.Set(key, buffer)
	return nil
}

// Mkdir records an empty container at key.
func (mb *MemoryBackend) Mkdir(key string) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.keys.Set(key+backend.KeySeparator, nil)
	return nil
}

// Delete removes the object stored at key. Returns false if nothing was stored.
func (mb *MemoryBackend) Delete(key string) bool {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return false
	}

	mb.mu.Lock()
	defer mb.mu.Unlock()

	_, deleted := mb.keys.Delete(key)
	return deleted
}

// Len returns the number of stored keys including container markers.
func (mb *MemoryBackend) Len() int {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	return mb.keys.Len()
}
