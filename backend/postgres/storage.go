package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/modtree/backend"
)

// Put stores data under key, replacing any previous content.
func (pb *PostgresBackend) Put(ctx context.Context, key string, data []byte) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	return pb.upsert(ctx, key, data)
}

// Mkdir records an empty container at key.
func (pb *PostgresBackend) Mkdir(ctx context.Context, key string) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	return pb.upsert(ctx, key+backend.KeySeparator, nil)
}

// Delete removes the object stored at key. Returns false if nothing was stored.
func (pb *PostgresBackend) Delete(ctx context.Context, key string) (bool, error) {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return false, err
	}

	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return false, err
	}

	tag, err := pool.Exec(ctx, "DELETE FROM modtree_objects WHERE key = $1", key)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (pb *PostgresBackend) upsert(ctx context.Context, key string, data []byte) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO modtree_objects (id, key, content, modified) VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET content = EXCLUDED.content, modified = EXCLUDED.modified`,
		id.String(), key, data, time.Now().UnixNano())

	return err
}

// Truncate removes every stored object.
func (pb *PostgresBackend) Truncate(ctx context.Context) error {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, "TRUNCATE modtree_objects")
	return err
}
