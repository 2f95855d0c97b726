package archive

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mwantia/modtree/backend"
)

func (ab *ArchiveBackend) Stat(ctx context.Context, key string) (bool, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.entries == nil {
		return false, backend.ErrNotOpen
	}

	file, exists := ab.entries.Get(key)
	return exists && file != nil, nil
}

func (ab *ArchiveBackend) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.entries == nil {
		return false, backend.ErrNotOpen
	}

	found := false
	ab.entries.Ascend(prefix, func(key string, _ *zip.File) bool {
		found = strings.HasPrefix(key, prefix)
		return false
	})

	return found, nil
}

func (ab *ArchiveBackend) List(ctx context.Context, prefix string) ([]string, []string, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.entries == nil {
		return nil, nil, backend.ErrNotOpen
	}

	var keys []string
	ab.entries.Ascend(prefix, func(key string, _ *zip.File) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		keys = append(keys, key)
		return true
	})

	objects, prefixes := backend.SplitListing(prefix, slices.Values(keys))
	return objects, prefixes, nil
}

func (ab *ArchiveBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.entries == nil {
		return nil, backend.ErrNotOpen
	}

	file, exists := ab.entries.Get(key)
	if !exists {
		return nil, backend.ErrNotExist
	}
	if file == nil {
		return nil, backend.ErrIsContainer
	}

	return file.Open()
}
