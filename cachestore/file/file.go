// Package file implements cachestore.CacheStore as one components.cache
// file per collection directory, gob-encoded. No ecosystem serialization
// library in the example pack offers a better fit for an ad hoc local
// sibling file than the standard library's own binary codec (see
// DESIGN.md), so this backend is the repo's one sanctioned stdlib-only
// cache implementation.
package file

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/protoflo/protoflo/cachestore"
)

// Store persists one components.cache file per collection beneath Dir.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir, creating the directory if missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file cache store: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.Dir, collection, "components.cache")
}

// Save writes c to the collection's components.cache file, creating the
// collection subdirectory if needed.
func (s *Store) Save(ctx context.Context, collection string, c *cachestore.Collection) error {
	p := s.path(collection)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("file cache store: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("file cache store: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("file cache store: encode %s: %w", collection, err)
	}
	return nil
}

// Load reads the collection's components.cache file.
func (s *Store) Load(ctx context.Context, collection string) (*cachestore.Collection, error) {
	f, err := os.Open(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cachestore.ErrNotFound
		}
		return nil, fmt.Errorf("file cache store: %w", err)
	}
	defer f.Close()

	var c cachestore.Collection
	if err := gob.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("file cache store: decode %s: %w", collection, err)
	}
	return &c, nil
}

// Delete removes the collection's components.cache file, if any.
func (s *Store) Delete(ctx context.Context, collection string) error {
	err := os.Remove(s.path(collection))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file cache store: %w", err)
	}
	return nil
}
