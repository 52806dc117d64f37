package graph

import "github.com/protoflo/protoflo/bus"

// InitialCollection holds a graph's initial information packets (IIPs):
// data delivered once to a target port with no upstream process.
type InitialCollection struct {
	bus.Bus

	graph    *Graph
	initials []*Initial
}

func newInitialCollection(g *Graph) *InitialCollection {
	return &InitialCollection{graph: g}
}

// Add schedules data for delivery to a non-addressable target port.
func (c *InitialCollection) Add(data any, tgtNode, tgtPort string, metadata Metadata) *Initial {
	return c.add(data, PortRef{Node: tgtNode, Port: tgtPort}, metadata)
}

// AddIndex schedules data for delivery to a possibly-addressable target
// port; a nil index addresses the port's next free slot.
func (c *InitialCollection) AddIndex(data any, tgtNode, tgtPort string, tgtIndex *int, metadata Metadata) *Initial {
	return c.add(data, PortRef{Node: tgtNode, Port: tgtPort, Index: tgtIndex}, metadata)
}

func (c *InitialCollection) add(data any, tgt PortRef, metadata Metadata) *Initial {
	if c.graph.Nodes.Get(tgt.Node) == nil {
		return nil
	}
	c.graph.checkTransactionStart()

	in := &Initial{Data: data, Tgt: tgt, Metadata: metadata.Clone()}
	c.initials = append(c.initials, in)

	c.Emit("add", bus.Fields{"initial": in})
	c.graph.checkTransactionEnd()
	return in
}

// List returns every pending initial in insertion order.
func (c *InitialCollection) List() []*Initial {
	out := make([]*Initial, len(c.initials))
	copy(out, c.initials)
	return out
}

// Remove deletes the initial targeting tgtNode/tgtPort, if any.
func (c *InitialCollection) Remove(tgtNode, tgtPort string) {
	for _, in := range c.initials {
		if in.Tgt.Node == tgtNode && in.Tgt.Port == tgtPort {
			c.graph.checkTransactionStart()
			c.removeInitial(in)
			c.graph.checkTransactionEnd()
			return
		}
	}
}

// removeInitial removes a specific initial value without its own
// transaction bracket, for use by cascading removals.
func (c *InitialCollection) removeInitial(in *Initial) {
	for i, cur := range c.initials {
		if cur == in {
			c.initials = append(c.initials[:i], c.initials[i+1:]...)
			break
		}
	}
	c.Emit("remove", bus.Fields{"initial": in})
}

// RenameNode updates every initial's target referencing oldID to newID.
func (c *InitialCollection) RenameNode(oldID, newID string) {
	for _, in := range c.initials {
		if in.Tgt.Node == oldID {
			in.Tgt.Node = newID
		}
	}
}
