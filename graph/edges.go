package graph

import "github.com/protoflo/protoflo/bus"

// EdgeCollection holds a graph's connections between node ports.
type EdgeCollection struct {
	bus.Bus

	graph *Graph
	edges []*Edge
}

func newEdgeCollection(g *Graph) *EdgeCollection {
	return &EdgeCollection{graph: g}
}

// Add connects a non-addressable outport to a non-addressable inport.
func (c *EdgeCollection) Add(srcNode, srcPort, tgtNode, tgtPort string, metadata Metadata) *Edge {
	return c.add(PortRef{Node: srcNode, Port: srcPort}, PortRef{Node: tgtNode, Port: tgtPort}, metadata)
}

// AddIndex connects ports that may be addressable; a nil index addresses
// the port's next free slot.
func (c *EdgeCollection) AddIndex(srcNode, srcPort string, srcIndex *int, tgtNode, tgtPort string, tgtIndex *int, metadata Metadata) *Edge {
	return c.add(
		PortRef{Node: srcNode, Port: srcPort, Index: srcIndex},
		PortRef{Node: tgtNode, Port: tgtPort, Index: tgtIndex},
		metadata,
	)
}

func (c *EdgeCollection) add(src, tgt PortRef, metadata Metadata) *Edge {
	if c.graph.Nodes.Get(src.Node) == nil || c.graph.Nodes.Get(tgt.Node) == nil {
		return nil
	}
	sameIndex := func(a, b *int) bool {
		return (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
	}
	for _, e := range c.edges {
		if e.Src.equal(src) && e.Tgt.equal(tgt) && sameIndex(e.Src.Index, src.Index) && sameIndex(e.Tgt.Index, tgt.Index) {
			return e
		}
	}
	c.graph.checkTransactionStart()

	e := &Edge{Src: src, Tgt: tgt, Metadata: metadata.Clone()}
	c.edges = append(c.edges, e)

	c.Emit("add", bus.Fields{"edge": e})
	c.graph.checkTransactionEnd()
	return e
}

func (c *EdgeCollection) find(src, tgt PortRef) *Edge {
	for _, e := range c.edges {
		if e.Src.equal(src) && e.Tgt.equal(tgt) {
			return e
		}
	}
	return nil
}

// List returns every edge in insertion order.
func (c *EdgeCollection) List() []*Edge {
	out := make([]*Edge, len(c.edges))
	copy(out, c.edges)
	return out
}

// Remove disconnects src from tgt, emitting "remove" if a matching edge
// existed.
func (c *EdgeCollection) Remove(srcNode, srcPort, tgtNode, tgtPort string) {
	e := c.find(PortRef{Node: srcNode, Port: srcPort}, PortRef{Node: tgtNode, Port: tgtPort})
	if e == nil {
		return
	}
	c.graph.checkTransactionStart()
	c.removeEdge(e)
	c.graph.checkTransactionEnd()
}

// removeEdge removes a specific edge value without its own transaction
// bracket, for use by cascading removals (e.g. NodeCollection.Remove).
func (c *EdgeCollection) removeEdge(e *Edge) {
	for i, cur := range c.edges {
		if cur == e {
			c.edges = append(c.edges[:i], c.edges[i+1:]...)
			break
		}
	}
	c.Emit("remove", bus.Fields{"edge": e})
}

// SetMetadata merges patch into the metadata of the edge between src and
// tgt, if one exists.
func (c *EdgeCollection) SetMetadata(srcNode, srcPort, tgtNode, tgtPort string, patch Metadata) {
	e := c.find(PortRef{Node: srcNode, Port: srcPort}, PortRef{Node: tgtNode, Port: tgtPort})
	if e == nil {
		return
	}
	c.graph.checkTransactionStart()

	updated, before := applyPatch(e.Metadata, patch)
	e.Metadata = updated

	c.Emit("change", bus.Fields{"edge": e, "metadata": e.Metadata, "old": before})
	c.graph.checkTransactionEnd()
}

// RenameNode updates every edge endpoint referencing oldID to newID.
func (c *EdgeCollection) RenameNode(oldID, newID string) {
	for _, e := range c.edges {
		if e.Src.Node == oldID {
			e.Src.Node = newID
		}
		if e.Tgt.Node == oldID {
			e.Tgt.Node = newID
		}
	}
}
