package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupAddRejectsDuplicateName(t *testing.T) {
	g := New("main")
	_, err := g.Groups.Add("grp", nil, nil)
	require.NoError(t, err)

	_, err = g.Groups.Add("grp", nil, nil)
	assert.ErrorIs(t, err, ErrGroupExists)
}

func TestGroupMembershipIsLoose(t *testing.T) {
	g := New("main")
	_, err := g.Groups.Add("grp", []string{"ghost"}, nil)
	require.NoError(t, err, "group membership may reference nodes that don't exist yet")
	assert.Equal(t, []string{"ghost"}, g.Groups.Get("grp").Nodes)
}

func TestGroupRemoveNodeAndRenameNode(t *testing.T) {
	g := New("main")
	_, err := g.Groups.Add("grp", []string{"A", "B"}, nil)
	require.NoError(t, err)

	g.Groups.RenameNode("A", "A2")
	assert.Equal(t, []string{"A2", "B"}, g.Groups.Get("grp").Nodes)

	g.Groups.RemoveNode("B")
	assert.Equal(t, []string{"A2"}, g.Groups.Get("grp").Nodes)
}
