package graph

import "github.com/protoflo/protoflo/bus"

// ExportCollection holds a graph's exported ports: a public name mapped to
// an internal node/port pair. The same type backs both Graph.Inports and
// Graph.Outports; kind ("Inport" or "Outport") is recorded at construction
// and not otherwise read, so both collections behave identically.
type ExportCollection struct {
	bus.Bus

	graph *Graph
	kind  string
	byName map[string]*ExportedPort
	order  []string
}

func newExportCollection(g *Graph, kind string) *ExportCollection {
	return &ExportCollection{graph: g, kind: kind, byName: make(map[string]*ExportedPort)}
}

// Add exposes processPort as public. It rejects the export when the named
// process does not exist in the graph; this is the corrected form of the
// original runtime's inverted guard, which accepted unknown nodes and
// rejected known ones.
func (c *ExportCollection) Add(public, process, port string, metadata Metadata) *ExportedPort {
	if c.graph.Nodes.Get(process) == nil {
		return nil
	}
	c.graph.checkTransactionStart()

	e := &ExportedPort{Public: public, Process: process, Port: port, Metadata: metadata.Clone()}
	c.byName[public] = e
	c.order = append(c.order, public)

	c.Emit("add", bus.Fields{"public": public, "process": process, "port": port, "metadata": e.Metadata})
	c.graph.checkTransactionEnd()
	return e
}

// Get returns the exported port registered under the given public name.
func (c *ExportCollection) Get(public string) *ExportedPort {
	return c.byName[public]
}

// List returns exported ports in export order.
func (c *ExportCollection) List() []*ExportedPort {
	out := make([]*ExportedPort, 0, len(c.order))
	for _, name := range c.order {
		if e, ok := c.byName[name]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Remove un-exports a public port name.
func (c *ExportCollection) Remove(public string) {
	e, ok := c.byName[public]
	if !ok {
		return
	}
	c.graph.checkTransactionStart()
	c.remove(e)
	c.graph.checkTransactionEnd()
}

func (c *ExportCollection) remove(e *ExportedPort) {
	delete(c.byName, e.Public)
	for i, n := range c.order {
		if n == e.Public {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.Emit("remove", bus.Fields{"public": e.Public})
}

// Rename changes a port's public name, preserving its internal binding.
func (c *ExportCollection) Rename(oldPublic, newPublic string) {
	e, ok := c.byName[oldPublic]
	if !ok || oldPublic == newPublic {
		return
	}
	c.graph.checkTransactionStart()

	e.Public = newPublic
	delete(c.byName, oldPublic)
	c.byName[newPublic] = e
	for i, n := range c.order {
		if n == oldPublic {
			c.order[i] = newPublic
			break
		}
	}

	c.Emit("rename", bus.Fields{"oldId": oldPublic, "newId": newPublic})
	c.graph.checkTransactionEnd()
}

// SetMetadata merges patch into an exported port's metadata.
func (c *ExportCollection) SetMetadata(public string, patch Metadata) {
	e, ok := c.byName[public]
	if !ok {
		return
	}
	c.graph.checkTransactionStart()

	updated, before := applyPatch(e.Metadata, patch)
	e.Metadata = updated

	c.Emit("change", bus.Fields{"public": public, "metadata": e.Metadata, "old": before})
	c.graph.checkTransactionEnd()
}

// RemoveFromNode un-exports every port bound to the given internal node,
// used when that node is removed from the graph.
func (c *ExportCollection) RemoveFromNode(process string) {
	for _, e := range c.List() {
		if e.Process == process {
			c.remove(e)
		}
	}
}

// RenameNode updates every export's internal node reference from oldID to
// newID, used when that node is renamed.
func (c *ExportCollection) RenameNode(oldID, newID string) {
	for _, e := range c.byName {
		if e.Process == oldID {
			e.Process = newID
		}
	}
}
