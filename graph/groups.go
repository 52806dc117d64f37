package graph

import "github.com/protoflo/protoflo/bus"

// GroupCollection holds a graph's annotational node groupings. Membership
// is loose: a node id listed in a group need not exist in the graph.
type GroupCollection struct {
	bus.Bus

	graph  *Graph
	byName map[string]*Group
	order  []string
}

func newGroupCollection(g *Graph) *GroupCollection {
	return &GroupCollection{graph: g, byName: make(map[string]*Group)}
}

// Add creates a new group over the given node ids. Re-adding an existing
// name returns ErrGroupExists.
func (c *GroupCollection) Add(name string, nodes []string, metadata Metadata) (*Group, error) {
	if _, exists := c.byName[name]; exists {
		return nil, ErrGroupExists
	}
	c.graph.checkTransactionStart()

	g := &Group{Name: name, Nodes: append([]string(nil), nodes...), Metadata: metadata.Clone()}
	c.byName[name] = g
	c.order = append(c.order, name)

	c.Emit("add", bus.Fields{"name": name, "nodes": g.Nodes, "metadata": g.Metadata})
	c.graph.checkTransactionEnd()
	return g, nil
}

// Get returns the group with the given name, or nil.
func (c *GroupCollection) Get(name string) *Group {
	return c.byName[name]
}

// List returns groups in creation order.
func (c *GroupCollection) List() []*Group {
	out := make([]*Group, 0, len(c.order))
	for _, name := range c.order {
		if g, ok := c.byName[name]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Rename changes a group's name.
func (c *GroupCollection) Rename(oldName, newName string) {
	g, ok := c.byName[oldName]
	if !ok || oldName == newName {
		return
	}
	c.graph.checkTransactionStart()

	g.Name = newName
	delete(c.byName, oldName)
	c.byName[newName] = g
	for i, n := range c.order {
		if n == oldName {
			c.order[i] = newName
			break
		}
	}

	c.Emit("rename", bus.Fields{"oldName": oldName, "newName": newName})
	c.graph.checkTransactionEnd()
}

// Remove deletes a group. Group membership is purely annotational, so no
// cascading removal is required.
func (c *GroupCollection) Remove(name string) {
	g, ok := c.byName[name]
	if !ok {
		return
	}
	c.graph.checkTransactionStart()

	delete(c.byName, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	c.Emit("remove", bus.Fields{"name": name, "nodes": g.Nodes, "metadata": g.Metadata})
	c.graph.checkTransactionEnd()
}

// SetMetadata merges patch into a group's metadata.
func (c *GroupCollection) SetMetadata(name string, patch Metadata) {
	g, ok := c.byName[name]
	if !ok {
		return
	}
	c.graph.checkTransactionStart()

	updated, before := applyPatch(g.Metadata, patch)
	g.Metadata = updated

	c.Emit("change", bus.Fields{"name": name, "metadata": g.Metadata, "old": before})
	c.graph.checkTransactionEnd()
}

// RemoveNode strips id from every group's membership list, used when that
// node is removed from the graph.
func (c *GroupCollection) RemoveNode(id string) {
	for _, g := range c.byName {
		for i, n := range g.Nodes {
			if n == id {
				g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
				break
			}
		}
	}
}

// RenameNode updates id in every group's membership list, used when that
// node is renamed.
func (c *GroupCollection) RenameNode(oldID, newID string) {
	for _, g := range c.byName {
		for i, n := range g.Nodes {
			if n == oldID {
				g.Nodes[i] = newID
			}
		}
	}
}
