package component

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/protoflo/protoflo/cachestore"
)

// Factory produces a fresh, uninitialized component instance.
type Factory func() Instance

// Handle is one of the two ways a manifest entry may resolve: a
// zero-argument factory, or a relative path to a subgraph definition file
// loaded as a graph-backed component. Exactly one should be set.
type Handle struct {
	Factory      Factory
	SubgraphPath string
}

// Manifest is a collection's up-front self-registration, replacing the
// reflective module scanning of the runtime this package ports: a module
// named "protoflo*" in the original becomes one Manifest registered by its
// own package, typically from an init function.
type Manifest struct {
	Name        string
	Description string
	Icon        string
	Components  map[string]Handle // short name -> handle

	// Version stands in for the original runtime's source-file mtime
	// staleness check: a statically linked Go program has no source
	// files to stat at runtime, so the collection's author bumps Version
	// whenever a component's port declarations change.
	Version string
}

// FullName returns "<collection>/<short>".
func FullName(collection, short string) string {
	return collection + "/" + short
}

// Registry discovers, instantiates and caches component descriptors
// across every registered collection.
type Registry struct {
	mu          sync.Mutex
	collections map[string]Manifest
	cache       cachestore.CacheStore

	// NewSubgraph instantiates a Handle.SubgraphPath entry. It is nil until
	// something that knows how to run a nested network (the network
	// package) sets it; Registry itself has no notion of what a network
	// is, to avoid an import cycle.
	NewSubgraph func(path string) (Instance, error)
}

// NewRegistry creates a Registry backed by the given cache store.
func NewRegistry(cache cachestore.CacheStore) *Registry {
	return &Registry{collections: make(map[string]Manifest), cache: cache}
}

// Register adds a collection's manifest. Re-registering a name replaces
// the prior manifest outright.
func (r *Registry) Register(m Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[m.Name] = m
}

// Collections returns every registered collection name.
func (r *Registry) Collections() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	return names
}

// Load instantiates the named component. fullName may be
// "<collection>/<short>" or, as a fallback, a bare short name unique
// across every registered collection.
func (r *Registry) Load(fullName string) (Instance, error) {
	collection, short, ok := strings.Cut(fullName, "/")
	if !ok {
		return r.loadByShortName(fullName)
	}

	r.mu.Lock()
	m, exists := r.collections[collection]
	r.mu.Unlock()
	if !exists {
		return nil, fmt.Errorf("component: unknown collection %q", collection)
	}
	return r.instantiate(m, short)
}

func (r *Registry) loadByShortName(short string) (Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var match *Manifest
	for _, m := range r.collections {
		if _, ok := m.Components[short]; ok {
			if match != nil {
				return nil, fmt.Errorf("component: short name %q is ambiguous across collections", short)
			}
			cur := m
			match = &cur
		}
	}
	if match == nil {
		return nil, fmt.Errorf("component: unknown component %q", short)
	}
	return r.instantiate(*match, short)
}

func (r *Registry) instantiate(m Manifest, short string) (Instance, error) {
	h, ok := m.Components[short]
	if !ok {
		return nil, fmt.Errorf("component: unknown component %q in collection %q", short, m.Name)
	}
	if h.Factory != nil {
		return h.Factory(), nil
	}
	if h.SubgraphPath != "" {
		if r.NewSubgraph == nil {
			return nil, fmt.Errorf("component: subgraph component %q requires a subgraph loader, not plain instantiation", short)
		}
		return r.NewSubgraph(h.SubgraphPath)
	}
	return nil, fmt.Errorf("component: handle for %q declares neither a factory nor a subgraph path", short)
}

// ListCached returns cache entries for every registered collection,
// refreshing any collection whose cache is stale or missing. Context is
// accepted for the cache store round-trip.
func (r *Registry) ListCached(ctx context.Context) ([]cachestore.Entry, error) {
	r.mu.Lock()
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	r.mu.Unlock()

	var out []cachestore.Entry
	for _, name := range names {
		c, err := r.collection(ctx, name)
		if err != nil {
			return nil, err
		}
		for short, e := range c.Entries {
			if short == collectionVersionKey {
				continue
			}
			out = append(out, e)
		}
	}
	return out, nil
}
