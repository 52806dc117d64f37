package cachestore

import (
	"context"
	"time"

	"github.com/protoflo/protoflo/port"
)

// Entry is one component's cached descriptor: everything the registry and
// the control protocol's component/list need without instantiating the
// component itself.
type Entry struct {
	Name        string
	Description string
	Icon        string
	Subgraph    bool
	InPorts     []port.Descriptor
	OutPorts    []port.Descriptor
}

// Collection is every component registered for one collection, plus the
// time the cache was built at. The registry does not read BuiltAt to decide
// staleness; it compares a version marker stored among the Entries.
type Collection struct {
	Name     string
	Entries  map[string]Entry
	BuiltAt  time.Time
}

// CacheStore persists and retrieves component Collections keyed by
// collection name. Implementations must treat Save as an upsert.
type CacheStore interface {
	Save(ctx context.Context, collection string, c *Collection) error
	Load(ctx context.Context, collection string) (*Collection, error)
	Delete(ctx context.Context, collection string) error
}

// ErrNotFound is returned by Load when no cache exists for the collection.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "cachestore: collection not found" }
