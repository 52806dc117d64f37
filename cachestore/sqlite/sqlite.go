// Package sqlite adapts the teacher's SqliteCheckpointStore into a
// cachestore.CacheStore: same CREATE TABLE IF NOT EXISTS and parameterized
// query idiom, same InitSchema method name, repurposed to persist
// component-cache collections rather than execution checkpoints.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/protoflo/protoflo/cachestore"
)

// Store implements cachestore.CacheStore using SQLite.
type Store struct {
	db        *sql.DB
	tableName string
}

// Options configures a SQLite connection.
type Options struct {
	Path      string
	TableName string // Default "component_cache"
}

// New opens (creating if necessary) the SQLite database at opts.Path and
// ensures the cache table exists.
func New(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "component_cache"
	}

	s := &Store{db: db, tableName: tableName}
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema creates the cache table if it doesn't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT PRIMARY KEY,
			entries TEXT NOT NULL,
			built_at DATETIME NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts collection.
func (s *Store) Save(ctx context.Context, collection string, c *cachestore.Collection) error {
	entriesJSON, err := json.Marshal(c.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection, entries, built_at)
		VALUES (?, ?, ?)
		ON CONFLICT(collection) DO UPDATE SET
			entries = excluded.entries,
			built_at = excluded.built_at
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, collection, string(entriesJSON), c.BuiltAt)
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// Load retrieves a collection by name.
func (s *Store) Load(ctx context.Context, collection string) (*cachestore.Collection, error) {
	query := fmt.Sprintf(`SELECT entries, built_at FROM %s WHERE collection = ?`, s.tableName)

	var entriesJSON string
	c := &cachestore.Collection{Name: collection}
	err := s.db.QueryRowContext(ctx, query, collection).Scan(&entriesJSON, &c.BuiltAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, cachestore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	if err := json.Unmarshal([]byte(entriesJSON), &c.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}
	return c, nil
}

// Delete removes a collection.
func (s *Store) Delete(ctx context.Context, collection string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection = ?`, s.tableName)
	_, err := s.db.ExecContext(ctx, query, collection)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}
