package graph

import (
	"sync"

	"github.com/protoflo/protoflo/bus"
)

// Event names emitted on a Graph's own bus. Each is the composition of a
// verb ("add", "remove", "rename", "change") with the subject collection
// name, matching the runtime protocol's wire vocabulary.
const (
	EventAddNode      = "addNode"
	EventRemoveNode    = "removeNode"
	EventRenameNode    = "renameNode"
	EventChangeNode    = "changeNode"
	EventAddEdge       = "addEdge"
	EventRemoveEdge    = "removeEdge"
	EventChangeEdge    = "changeEdge"
	EventAddInitial    = "addInitial"
	EventRemoveInitial = "removeInitial"
	EventAddInport     = "addInport"
	EventRemoveInport  = "removeInport"
	EventRenameInport  = "renameInport"
	EventChangeInport  = "changeInport"
	EventAddOutport    = "addOutport"
	EventRemoveOutport = "removeOutport"
	EventRenameOutport = "renameOutport"
	EventChangeOutport = "changeOutport"
	EventChangeProperties = "changeProperties"
	EventStartTransaction = "startTransaction"
	EventEndTransaction   = "endTransaction"
)

// Graph is a transactional, observable collection of nodes, edges,
// initials and exported ports, plus annotational groups.
type Graph struct {
	bus.Bus

	Name       string
	Properties Metadata

	Nodes    *NodeCollection
	Edges    *EdgeCollection
	Initials *InitialCollection
	Inports  *ExportCollection
	Outports *ExportCollection
	Groups   *GroupCollection

	mu          sync.Mutex
	transaction Transaction
}

// New creates an empty, named graph with all five child collections wired
// and wildcard-relayed onto the graph's own bus.
func New(name string) *Graph {
	g := &Graph{
		Name:       name,
		Properties: Metadata{},
	}
	g.Nodes = newNodeCollection(g)
	g.Edges = newEdgeCollection(g)
	g.Initials = newInitialCollection(g)
	g.Inports = newExportCollection(g, "Inport")
	g.Outports = newExportCollection(g, "Outport")
	g.Groups = newGroupCollection(g)

	g.Nodes.OnAll(relay(g, "Node"))
	g.Edges.OnAll(relay(g, "Edge"))
	g.Initials.OnAll(relay(g, "Initial"))
	g.Inports.OnAll(relay(g, "Inport"))
	g.Outports.OnAll(relay(g, "Outport"))

	return g
}

// relay re-emits a child collection event ("add", "remove", "rename",
// "change") as "<verb><suffix>" on the parent graph, e.g. the Nodes
// collection's "add" becomes the Graph's "addNode".
func relay(g *Graph, suffix string) bus.WildcardHandler {
	return func(name string, data bus.Fields) {
		g.Emit(name+suffix, data)
	}
}

// SetProperties merges patch into the graph's property map, deleting any
// key whose value is nil, and emits changeProperties with the prior copy.
func (g *Graph) SetProperties(patch Metadata) {
	g.checkTransactionStart()
	updated, before := applyPatch(g.Properties, patch)
	g.Properties = updated
	g.Emit(EventChangeProperties, bus.Fields{"properties": g.Properties, "old": before})
	g.checkTransactionEnd()
}

// Transaction returns a snapshot of the graph's current transaction state.
func (g *Graph) Transaction() Transaction {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transaction
}
