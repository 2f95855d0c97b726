package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/mwantia/modtree/backend"
)

func (sb *SQLiteBackend) Stat(ctx context.Context, key string) (bool, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var exists bool
	err := sb.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM modtree_objects WHERE key = ?)",
		key).Scan(&exists)

	return exists, err
}

func (sb *SQLiteBackend) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var exists bool
	err := sb.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM modtree_objects WHERE substr(key, 1, length(?)) = ?)",
		prefix, prefix).Scan(&exists)

	return exists, err
}

func (sb *SQLiteBackend) List(ctx context.Context, prefix string) ([]string, []string, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	rows, err := sb.db.QueryContext(ctx,
		"SELECT key FROM modtree_objects WHERE substr(key, 1, length(?)) = ? ORDER BY key",
		prefix, prefix)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	objects, prefixes := backend.SplitListing(prefix, slices.Values(keys))
	return objects, prefixes, nil
}

func (sb *SQLiteBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return nil, backend.ErrIsContainer
	}

	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var content []byte
	err := sb.db.QueryRowContext(ctx,
		"SELECT content FROM modtree_objects WHERE key = ?",
		key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(content)), nil
}
