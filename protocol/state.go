package protocol

import (
	"sync"

	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/network"
)

// State is the server-side session a Dispatcher's handlers close over: the
// set of graphs the client has created or loaded, the networks running
// them, and the component registry both consult. One State is shared by
// every connected client, matching the reference runtime's single-process,
// single-registry model.
type State struct {
	Registry *component.Registry

	mu        sync.Mutex
	graphs    map[string]*graph.Graph
	networks  map[string]*network.Network
	edges     map[ClientID]map[string]bool // clientID -> allowed socket ids
	subgraphs map[string]component.Handle  // short name -> handle, collection "graph"
}

// NewState creates an empty State backed by registry.
func NewState(registry *component.Registry) *State {
	return &State{
		Registry: registry,
		graphs:    make(map[string]*graph.Graph),
		networks:  make(map[string]*network.Network),
		edges:     make(map[ClientID]map[string]bool),
		subgraphs: make(map[string]component.Handle),
	}
}

// registerSubgraph exposes a live, in-memory graph as a loadable component
// "graph/<id>", so it can be used as a node elsewhere the same way a
// file-backed subgraph can. Registry.Register replaces a collection's
// manifest outright, so every call re-registers the whole accumulated set.
func (s *State) registerSubgraph(id string, g *graph.Graph) {
	s.mu.Lock()
	s.subgraphs[id] = component.Handle{Factory: func() component.Instance {
		return network.NewSubgraphFromGraph(s.Registry, g)
	}}
	handles := make(map[string]component.Handle, len(s.subgraphs))
	for k, v := range s.subgraphs {
		handles[k] = v
	}
	s.mu.Unlock()

	s.Registry.Register(component.Manifest{Name: "graph", Components: handles})
}

func (s *State) setGraph(id string, g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[id] = g
}

func (s *State) getGraph(id string) (*graph.Graph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[id]
	return g, ok
}

func (s *State) setNetwork(graphID string, n *network.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks[graphID] = n
}

func (s *State) getNetwork(graphID string) (*network.Network, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.networks[graphID]
	return n, ok
}

func (s *State) setEdgeAllowlist(client ClientID, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	allow := make(map[string]bool, len(ids))
	for _, id := range ids {
		allow[id] = true
	}
	s.edges[client] = allow
}

func (s *State) edgeAllowed(client ClientID, socketID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	allow, ok := s.edges[client]
	if !ok {
		// No "edges" call yet for this client: forward everything, matching
		// the reference runtime's default-open behavior before subscription.
		return true
	}
	return allow[socketID]
}

// RegisterAll wires every sub-protocol's handlers onto d, closing over the
// same State so that a graph created via "graph clear" is immediately
// visible to "network start", and so on.
func RegisterAll(d *Dispatcher, state *State) {
	RegisterRuntime(d)
	RegisterGraph(d, state)
	RegisterComponent(d, state)
	RegisterNetwork(d, state)
}
