// Package postgres adapts the teacher's PostgresCheckpointStore into a
// cachestore.CacheStore, keyed by collection name instead of checkpoint id.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/protoflo/protoflo/cachestore"
)

// DBPool is the subset of pgxpool.Pool's interface this store needs,
// allowing tests to substitute a mock.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements cachestore.CacheStore using PostgreSQL.
type Store struct {
	pool      DBPool
	tableName string
}

// Options configures a Postgres connection.
type Options struct {
	ConnString string
	TableName  string // Default "component_cache"
}

// New creates a Store backed by a fresh connection pool.
func New(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "component_cache"
	}

	return &Store{pool: pool, tableName: tableName}, nil
}

// NewWithPool creates a Store backed by an existing pool, for tests.
func NewWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "component_cache"
	}
	return &Store{pool: pool, tableName: tableName}
}

// InitSchema creates the cache table if it doesn't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT PRIMARY KEY,
			entries JSONB NOT NULL,
			built_at TIMESTAMPTZ NOT NULL
		);
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Save upserts collection.
func (s *Store) Save(ctx context.Context, collection string, c *cachestore.Collection) error {
	entriesJSON, err := json.Marshal(c.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection, entries, built_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection) DO UPDATE SET
			entries = EXCLUDED.entries,
			built_at = EXCLUDED.built_at
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query, collection, entriesJSON, c.BuiltAt)
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// Load retrieves a collection by name.
func (s *Store) Load(ctx context.Context, collection string) (*cachestore.Collection, error) {
	query := fmt.Sprintf(`SELECT entries, built_at FROM %s WHERE collection = $1`, s.tableName)

	var entriesJSON []byte
	c := &cachestore.Collection{Name: collection}

	err := s.pool.QueryRow(ctx, query, collection).Scan(&entriesJSON, &c.BuiltAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, cachestore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	if err := json.Unmarshal(entriesJSON, &c.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}
	return c, nil
}

// Delete removes a collection.
func (s *Store) Delete(ctx context.Context, collection string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection = $1`, s.tableName)
	_, err := s.pool.Exec(ctx, query, collection)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}
