package memory

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/mwantia/modtree/backend"
)

func (mb *MemoryBackend) Stat(ctx context.Context, key string) (bool, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return false, nil
	}

	mb.mu.RLock()
	defer mb.mu.RUnlock()

	_, exists := mb.keys.Get(key)
	return exists, nil
}

func (mb *MemoryBackend) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	found := false
	// The first key at or after prefix decides
	mb.keys.Ascend(prefix, func(key string, _ []byte) bool {
		found = strings.HasPrefix(key, prefix)
		return false
	})

	return found, nil
}

func (mb *MemoryBackend) List(ctx context.Context, prefix string) ([]string, []string, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	var keys []string
	mb.keys.Ascend(prefix, func(key string, _ []byte) bool {
		if !strings.HasPrefix(key, prefix) {
			// Keys are ordered, nothing below prefix follows
			return false
		}
		keys = append(keys, key)
		return true
	})

	objects, prefixes := backend.SplitListing(prefix, slices.Values(keys))
	return objects, prefixes, nil
}

func (mb *MemoryBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return nil, backend.ErrIsContainer
	}

	mb.mu.RLock()
	defer mb.mu.RUnlock()

	data, exists := mb.keys.Get(key)
	if !exists {
		return nil, backend.ErrNotExist
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}
