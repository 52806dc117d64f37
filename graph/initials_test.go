package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialAddRejectsUnknownNode(t *testing.T) {
	g := New("main")
	in := g.Initials.Add("hello", "ghost", "in", nil)
	assert.Nil(t, in)
}

func TestInitialAddAndRemove(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Initials.Add("hello", "A", "in", nil)
	assert.Len(t, g.Initials.List(), 1)

	g.Initials.Remove("A", "in")
	assert.Empty(t, g.Initials.List())
}

func TestInitialRenameNodeUpdatesTarget(t *testing.T) {
	g := New("main")
	g.Nodes.Add("A", "c", nil)
	g.Initials.Add(42, "A", "in", nil)

	g.Nodes.Rename("A", "A2")
	assert.Equal(t, "A2", g.Initials.List()[0].Tgt.Node)
}
