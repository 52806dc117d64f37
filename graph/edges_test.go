package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeAddRejectsUnknownNodes(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	e := g.Edges.Add("A", "out", "ghost", "in", nil)
	assert.Nil(t, e)
	assert.Empty(t, g.Edges.List())
}

func TestEdgeAddIsDeduplicated(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Nodes.Add("B", "c", nil)

	first := g.Edges.Add("A", "out", "B", "in", Metadata{"route": 1})
	second := g.Edges.Add("A", "out", "B", "in", Metadata{"route": 2})

	assert.Same(t, first, second)
	assert.Len(t, g.Edges.List(), 1)
}

func TestEdgeAddIndexAddressesSlots(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Nodes.Add("B", "c", nil)
	zero, one := 0, 1

	g.Edges.AddIndex("A", "out", nil, "B", "in", &zero, nil)
	g.Edges.AddIndex("A", "out", nil, "B", "in", &one, nil)

	assert.Len(t, g.Edges.List(), 2)
}

func TestEdgeRemoveAndSetMetadata(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Nodes.Add("B", "c", nil)
	g.Edges.Add("A", "out", "B", "in", nil)

	g.Edges.SetMetadata("A", "out", "B", "in", Metadata{"route": 5})
	assert.Equal(t, 5, g.Edges.List()[0].Metadata["route"])

	g.Edges.Remove("A", "out", "B", "in")
	assert.Empty(t, g.Edges.List())
}

func TestEdgeRenameNodeUpdatesEndpoints(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Nodes.Add("B", "c", nil)
	g.Edges.Add("A", "out", "B", "in", nil)

	g.Nodes.Rename("B", "B2")
	e := g.Edges.List()[0]
	assert.Equal(t, "B2", e.Tgt.Node)
}
