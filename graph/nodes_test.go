package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAddIsIdempotentByID(t *testing.T) {
	g := New("main")
	first := g.Nodes.Add("A", "core/Repeat", Metadata{"x": 1})
	second := g.Nodes.Add("A", "core/Drop", Metadata{"x": 2})

	assert.Same(t, first, second)
	assert.Equal(t, "core/Repeat", g.Nodes.Get("A").Component)
}

func TestNodeRemoveCascadesEdgesInitialsExportsGroups(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "core/Repeat", nil)
	g.Nodes.Add("B", "core/Drop", nil)
	g.Edges.Add("A", "out", "B", "in", nil)
	g.Initials.Add("hello", "A", "in", nil)
	g.Outports.Add("OUT", "A", "out", nil)
	_, err := g.Groups.Add("grp", []string{"A", "B"}, nil)
	require.NoError(t, err)

	g.Nodes.Remove("A")

	assert.Nil(t, g.Nodes.Get("A"))
	assert.Empty(t, g.Edges.List())
	assert.Empty(t, g.Initials.List())
	assert.Nil(t, g.Outports.Get("OUT"))
	assert.Equal(t, []string{"B"}, g.Groups.Get("grp").Nodes)
}

func TestNodeRenamePropagatesToReferences(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "core/Repeat", nil)
	g.Nodes.Add("B", "core/Drop", nil)
	g.Edges.Add("A", "out", "B", "in", nil)
	g.Initials.Add(1, "A", "in", nil)
	g.Outports.Add("OUT", "A", "out", nil)
	_, err := g.Groups.Add("grp", []string{"A"}, nil)
	require.NoError(t, err)

	g.Nodes.Rename("A", "A2")

	assert.Nil(t, g.Nodes.Get("A"))
	assert.Equal(t, "A2", g.Nodes.Get("A2").ID)
	assert.Equal(t, "A2", g.Edges.List()[0].Src.Node)
	assert.Equal(t, "A2", g.Initials.List()[0].Tgt.Node)
	assert.Equal(t, "A2", g.Outports.Get("OUT").Process)
	assert.Equal(t, []string{"A2"}, g.Groups.Get("grp").Nodes)
}

func TestNodeSetMetadataMerges(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "core/Repeat", Metadata{"x": 1, "y": 2})
	g.Nodes.SetMetadata("A", Metadata{"y": nil, "z": 3})

	got := g.Nodes.Get("A").Metadata
	assert.Equal(t, 1, got["x"])
	assert.Equal(t, 3, got["z"])
	_, hasY := got["y"]
	assert.False(t, hasY)
}

func TestNodeOrderPreservedAcrossRename(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Nodes.Add("B", "c", nil)
	g.Nodes.Add("C", "c", nil)
	g.Nodes.Rename("B", "B2")

	var ids []string
	for _, n := range g.Nodes.List() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"A", "B2", "C"}, ids)
}
