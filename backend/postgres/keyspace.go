package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/mwantia/modtree/backend"
)

func (pb *PostgresBackend) Stat(ctx context.Context, key string) (bool, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return false, err
	}

	var exists bool
	err = pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM modtree_objects WHERE key = $1)",
		key).Scan(&exists)

	return exists, err
}

func (pb *PostgresBackend) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return false, err
	}

	var exists bool
	err = pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM modtree_objects WHERE starts_with(key, $1))",
		prefix).Scan(&exists)

	return exists, err
}

func (pb *PostgresBackend) List(ctx context.Context, prefix string) ([]string, []string, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return nil, nil, err
	}

	rows, err := pool.Query(ctx,
		"SELECT key FROM modtree_objects WHERE starts_with(key, $1) ORDER BY key",
		prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	objects, prefixes := backend.SplitListing(prefix, slices.Values(keys))
	return objects, prefixes, nil
}

func (pb *PostgresBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return nil, backend.ErrIsContainer
	}

	pb.mu.RLock()
	defer pb.mu.RUnlock()

	pool, err := pb.acquire()
	if err != nil {
		return nil, err
	}

	var content []byte
	err = pool.QueryRow(ctx,
		"SELECT content FROM modtree_objects WHERE key = $1",
		key).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, backend.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	return io.NopCloser(bytes.NewReader(content)), nil
}
