package component

import (
	"context"
	"errors"
	"fmt"

	"github.com/protoflo/protoflo/cachestore"
	"github.com/protoflo/protoflo/protolog"
)

// collectionVersionKey is the synthetic entry name a refreshed Collection
// stores its source Manifest.Version under, so staleness can be checked
// without a second round-trip.
const collectionVersionKey = "\x00version"

// collection returns the up-to-date cachestore.Collection for name,
// regenerating it first if the cache is missing or stale relative to the
// registered manifest's Version.
func (r *Registry) collection(ctx context.Context, name string) (*cachestore.Collection, error) {
	r.mu.Lock()
	m, ok := r.collections[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("component: unknown collection %q", name)
	}

	cached, err := r.cache.Load(ctx, name)
	if err != nil && !errors.Is(err, cachestore.ErrNotFound) {
		return nil, err
	}
	if err == nil && !r.stale(cached, m) {
		return cached, nil
	}

	fresh, err := r.refresh(m)
	if err != nil {
		return nil, err
	}
	if saveErr := r.cache.Save(ctx, name, fresh); saveErr != nil {
		// A cache write failure is logged, not fatal: the freshly computed
		// collection is still usable this run.
		protolog.Warn("component: writing cache for collection %q: %v", name, saveErr)
		return fresh, nil
	}
	return fresh, nil
}

func (r *Registry) stale(cached *cachestore.Collection, m Manifest) bool {
	if cached == nil {
		return true
	}
	marker, ok := cached.Entries[collectionVersionKey]
	return !ok || marker.Name != m.Version
}

// refresh instantiates every factory-backed component in the manifest,
// marks each instance ready itself and extracts its port descriptors into
// a fresh Collection. It does not wait for an instance to become ready on
// its own, and it does not call Initialize. Subgraph handles are recorded
// without instantiation; handles with neither a factory nor a subgraph path
// are skipped.
func (r *Registry) refresh(m Manifest) (*cachestore.Collection, error) {
	c := &cachestore.Collection{
		Name:    m.Name,
		Entries: make(map[string]cachestore.Entry),
	}
	c.Entries[collectionVersionKey] = cachestore.Entry{Name: m.Version}

	for short, h := range m.Components {
		if h.SubgraphPath != "" {
			c.Entries[short] = cachestore.Entry{
				Name:     FullName(m.Name, short),
				Subgraph: true,
			}
			continue
		}
		if h.Factory == nil {
			continue
		}

		inst := h.Factory()
		inst.SetReady(true) // synchronous construction: already ready

		entry := cachestore.Entry{
			Name:     FullName(m.Name, short),
			Subgraph: inst.Subgraph(),
		}
		if b, ok := inst.(interface{ Description() string }); ok {
			entry.Description = b.Description()
		}
		if b, ok := inst.(interface{ Icon() string }); ok {
			entry.Icon = b.Icon()
		}
		for _, p := range inst.InPorts() {
			entry.InPorts = append(entry.InPorts, p.Descriptor)
		}
		for _, p := range inst.OutPorts() {
			entry.OutPorts = append(entry.OutPorts, p.Descriptor)
		}
		c.Entries[short] = entry
	}

	return c, nil
}
