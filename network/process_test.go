package network

import (
	"testing"

	"github.com/protoflo/protoflo/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProcessIsIdempotent(t *testing.T) {
	g := graph.New("test")
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)

	p1, err := n.AddProcess("a", "test/Upper")
	require.NoError(t, err)
	p2, err := n.AddProcess("a", "test/Upper")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestAddProcessUnknownComponent(t *testing.T) {
	g := graph.New("test")
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)

	_, err = n.AddProcess("a", "test/NoSuchThing")
	assert.Error(t, err)
}

func TestRemoveProcessDropsConnections(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	require.NoError(t, n.RemoveProcess("b"))
	assert.Len(t, n.connections, 0)
	_, ok := n.processes["b"]
	assert.False(t, ok)
}

func TestRenameProcessRebindsPorts(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	require.NoError(t, n.RenameProcess("a", "renamed"))

	_, stillOld := n.processes["a"]
	assert.False(t, stillOld)
	renamed, ok := n.processes["renamed"]
	assert.True(t, ok)
	assert.Equal(t, "renamed", renamed.ID)

	found := false
	for _, c := range n.connections {
		if c.Socket.Src.Node == "renamed" {
			found = true
		}
	}
	assert.True(t, found)
}
