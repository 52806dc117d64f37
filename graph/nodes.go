package graph

import (
	"sort"

	"github.com/protoflo/protoflo/bus"
)

// NodeCollection holds a graph's process placeholders, keyed by id.
type NodeCollection struct {
	bus.Bus

	graph *Graph
	byID  map[string]*Node
	order []string
}

func newNodeCollection(g *Graph) *NodeCollection {
	return &NodeCollection{graph: g, byID: make(map[string]*Node)}
}

// Add registers a new node. Re-adding an existing id is a no-op that
// returns the existing node unchanged, matching the original runtime's
// idempotent addNode behavior.
func (c *NodeCollection) Add(id, component string, metadata Metadata) *Node {
	if n, ok := c.byID[id]; ok {
		return n
	}
	c.graph.checkTransactionStart()

	n := &Node{ID: id, Component: component, Metadata: metadata.Clone()}
	c.byID[id] = n
	c.order = append(c.order, id)

	c.Emit("add", bus.Fields{"id": id, "component": component, "metadata": n.Metadata})
	c.graph.checkTransactionEnd()
	return n
}

// Get returns the node with the given id, or nil.
func (c *NodeCollection) Get(id string) *Node {
	return c.byID[id]
}

// List returns all nodes in insertion order.
func (c *NodeCollection) List() []*Node {
	out := make([]*Node, 0, len(c.order))
	for _, id := range c.order {
		if n, ok := c.byID[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Remove deletes a node and cascades removal to every edge, initial, group
// membership and exported port that referenced it.
func (c *NodeCollection) Remove(id string) {
	n, ok := c.byID[id]
	if !ok {
		return
	}
	c.graph.checkTransactionStart()

	for _, e := range c.graph.Edges.List() {
		if e.Src.Node == id || e.Tgt.Node == id {
			c.graph.Edges.removeEdge(e)
		}
	}
	for _, in := range c.graph.Initials.List() {
		if in.Tgt.Node == id {
			c.graph.Initials.removeInitial(in)
		}
	}
	c.graph.Inports.RemoveFromNode(id)
	c.graph.Outports.RemoveFromNode(id)
	c.graph.Groups.RemoveNode(id)

	delete(c.byID, id)
	c.removeFromOrder(id)

	c.Emit("remove", bus.Fields{"id": id, "component": n.Component, "metadata": n.Metadata})
	c.graph.checkTransactionEnd()
}

// Rename changes a node's id in place, updating every edge, initial, group
// and exported port reference, and preserving insertion order.
func (c *NodeCollection) Rename(oldID, newID string) {
	n, ok := c.byID[oldID]
	if !ok || oldID == newID {
		return
	}
	c.graph.checkTransactionStart()

	n.ID = newID
	delete(c.byID, oldID)
	c.byID[newID] = n
	for i, id := range c.order {
		if id == oldID {
			c.order[i] = newID
			break
		}
	}

	c.graph.Edges.RenameNode(oldID, newID)
	c.graph.Initials.RenameNode(oldID, newID)
	c.graph.Inports.RenameNode(oldID, newID)
	c.graph.Outports.RenameNode(oldID, newID)
	c.graph.Groups.RenameNode(oldID, newID)

	c.Emit("rename", bus.Fields{"oldId": oldID, "newId": newID})
	c.graph.checkTransactionEnd()
}

// SetMetadata merges patch into a node's metadata bag.
func (c *NodeCollection) SetMetadata(id string, patch Metadata) {
	n, ok := c.byID[id]
	if !ok {
		return
	}
	c.graph.checkTransactionStart()

	updated, before := applyPatch(n.Metadata, patch)
	n.Metadata = updated

	c.Emit("change", bus.Fields{"id": id, "node": n, "metadata": n.Metadata, "old": before})
	c.graph.checkTransactionEnd()
}

func (c *NodeCollection) removeFromOrder(id string) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Sorted returns node ids in lexical order, for deterministic JSON output.
func (c *NodeCollection) Sorted() []string {
	out := make([]string, 0, len(c.byID))
	for id := range c.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
