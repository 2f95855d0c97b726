package consul

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/mwantia/modtree/backend"
)

func (cb *ConsulBackend) Stat(ctx context.Context, key string) (bool, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return false, nil
	}

	pair, _, err := cb.kv.Get(cb.buildKey(key), cb.queryOptions(ctx))
	if err != nil {
		return false, err
	}

	return pair != nil, nil
}

func (cb *ConsulBackend) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	keys, _, err := cb.kv.Keys(cb.buildKey(prefix), backend.KeySeparator, cb.queryOptions(ctx))
	if err != nil {
		return false, err
	}

	return len(keys) > 0, nil
}

func (cb *ConsulBackend) List(ctx context.Context, prefix string) ([]string, []string, error) {
	// With a separator Consul only returns direct keys and folded sub-prefixes
	keys, _, err := cb.kv.Keys(cb.buildKey(prefix), backend.KeySeparator, cb.queryOptions(ctx))
	if err != nil {
		return nil, nil, err
	}

	relative := make([]string, 0, len(keys))
	for _, key := range keys {
		if rel, ok := strings.CutPrefix(key, cb.prefix); ok {
			relative = append(relative, rel)
		}
	}

	objects, prefixes := backend.SplitListing(prefix, slices.Values(relative))
	return objects, prefixes, nil
}

func (cb *ConsulBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return nil, backend.ErrIsContainer
	}

	pair, _, err := cb.kv.Get(cb.buildKey(key), cb.queryOptions(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, backend.ErrNotExist
	}

	return io.NopCloser(bytes.NewReader(pair.Value)), nil
}
