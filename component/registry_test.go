package component

import (
	"context"
	"testing"

	"github.com/protoflo/protoflo/cachestore/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatFactory() Instance {
	return NewMapComponent("repeat", func(data any) (any, error) { return data, nil })
}

func TestRegistryLoadByFullName(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	r := NewRegistry(store)
	r.Register(Manifest{Name: "core", Components: map[string]Handle{"Repeat": {Factory: repeatFactory}}})

	inst, err := r.Load("core/Repeat")
	require.NoError(t, err)
	assert.NotNil(t, inst)
}

func TestRegistryLoadByShortNameFallback(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	r := NewRegistry(store)
	r.Register(Manifest{Name: "core", Components: map[string]Handle{"Repeat": {Factory: repeatFactory}}})

	inst, err := r.Load("Repeat")
	require.NoError(t, err)
	assert.NotNil(t, inst)
}

func TestRegistryLoadUnknownCollectionErrors(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	r := NewRegistry(store)

	_, err = r.Load("ghost/Thing")
	assert.Error(t, err)
}

func TestRegistryListCachedRefreshesAndExtractsPorts(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	r := NewRegistry(store)
	r.Register(Manifest{
		Name:    "core",
		Version: "v1",
		Components: map[string]Handle{
			"Repeat": {Factory: repeatFactory},
		},
	})

	entries, err := r.ListCached(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "core/Repeat", entries[0].Name)
	assert.NotEmpty(t, entries[0].InPorts)
	assert.NotEmpty(t, entries[0].OutPorts)
}

func TestRegistryListCachedIsStableAcrossCalls(t *testing.T) {
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	r := NewRegistry(store)
	r.Register(Manifest{
		Name:    "core",
		Version: "v1",
		Components: map[string]Handle{
			"Repeat": {Factory: repeatFactory},
		},
	})

	first, err := r.ListCached(context.Background())
	require.NoError(t, err)
	second, err := r.ListCached(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
