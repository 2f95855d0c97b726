package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mwantia/modtree/backend"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteBackend stores objects as rows keyed by their "/" separated key.
// Containers are implicit prefixes or explicit marker rows whose key ends in "/".
type SQLiteBackend struct {
	mu  sync.RWMutex
	dsn string
	db  *sql.DB
}

// NewSQLiteBackend creates a new SQLite-backed backend.
// The dsn can be ":memory:" for an in-memory database or a file path.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases alive across queries
	db.SetMaxOpenConns(1)

	return &SQLiteBackend{
		dsn: dsn,
		db:  db,
	}, nil
}

// initSchema creates the database schema.
func (sb *SQLiteBackend) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS modtree_objects (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		content BLOB,
		modified INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_modtree_objects_key ON modtree_objects(key);
	`

	_, err := sb.db.ExecContext(ctx, schema)
	return err
}

// Returns the identifier name defined for this backend
func (*SQLiteBackend) Name() string {
	return "sqlite"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (sb *SQLiteBackend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	// Verify database connection
	if err := sb.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}

	if _, err := sb.db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}

	if err := sb.initSchema(ctx); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", backend.ErrOpenFailed, err)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *SQLiteBackend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.db.Close()
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *SQLiteBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityEnumerate,
			backend.CapabilityStreaming,
			backend.CapabilityPersistent,
			backend.CapabilityWritable,
		},
	}
}

// Root returns the top-level container of this database.
func (sb *SQLiteBackend) Root(ctx context.Context) (backend.Store, error) {
	return backend.NewKeyspaceStore(sb, "sqlite:"+sb.dsn+"!/"), nil
}
