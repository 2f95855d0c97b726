package consul

import (
	"context"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/modtree/backend"
)

// Put stores data under key, replacing any previous content.
func (cb *ConsulBackend) Put(ctx context.Context, key string, data []byte) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	pair := &api.KVPair{
		Key:   cb.buildKey(key),
		Value: data,
	}

	opts := &api.WriteOptions{}
	_, err = cb.kv.Put(pair, opts.WithContext(ctx))
	return err
}

// Delete removes the object stored at key.
func (cb *ConsulBackend) Delete(ctx context.Context, key string) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	opts := &api.WriteOptions{}
	_, err = cb.kv.Delete(cb.buildKey(key), opts.WithContext(ctx))
	return err
}

// DeleteTree removes every key below the configured prefix.
// Returns ErrNoPrefix if the backend exposes the whole KV store.
func (cb *ConsulBackend) DeleteTree(ctx context.Context) error {
	if cb.prefix == "" {
		return backend.ErrNoPrefix
	}

	opts := &api.WriteOptions{}
	_, err := cb.kv.DeleteTree(cb.prefix, opts.WithContext(ctx))
	return err
}
