package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/modtree/backend"
)

// Put stores data under key, replacing any previous content.
func (sb *SQLiteBackend) Put(ctx context.Context, key string, data []byte) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	return sb.upsert(ctx, key, data)
}

// Mkdir records an empty container at key.
func (sb *SQLiteBackend) Mkdir(ctx context.Context, key string) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	return sb.upsert(ctx, key+backend.KeySeparator, nil)
}

// Delete removes the object stored at key. Returns false if nothing was stored.
func (sb *SQLiteBackend) Delete(ctx context.Context, key string) (bool, error) {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return false, err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	result, err := sb.db.ExecContext(ctx, "DELETE FROM modtree_objects WHERE key = ?", key)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (sb *SQLiteBackend) upsert(ctx context.Context, key string, data []byte) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	_, err = sb.db.ExecContext(ctx, `
		INSERT INTO modtree_objects (id, key, content, modified) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET content = excluded.content, modified = excluded.modified`,
		id.String(), key, data, time.Now().UnixNano())

	return err
}
