package network

import (
	"fmt"
	"sync"
	"time"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/port"
)

// Process is one running component instance wired into the network under
// a node id.
type Process struct {
	ID       string
	Instance component.Instance
}

// Connection is a wired InternalSocket plus whichever graph descriptor
// produced it, kept around so reconciliation can find and tear it down
// again.
type Connection struct {
	Socket  *port.InternalSocket
	Edge    *graph.Edge
	Initial *graph.Initial
}

// Network executes one graph: a process per node, a socket per edge and
// initial, and the activity/reconciliation machinery that keeps it synced
// with further mutation of the graph.
type Network struct {
	bus.Bus

	Graph     *graph.Graph
	Registry  *component.Registry
	Scheduler Scheduler

	breadcrumb []string // subgraph nesting path, outermost first

	mu          sync.Mutex
	processes   map[string]*Process
	connections []*Connection
	pending     []*Connection // initials queued for sendInitials

	activityMu    sync.Mutex
	activityCount int
	cancelEnd     CancelFunc
	startedAt     time.Time
	running       bool

	reconcile *reconciler
}

// Create instantiates a Network for graph g. If the graph already has nodes
// and delayed is not set, it immediately wires and starts the network;
// otherwise the caller wires it with Connect and starts it with Start.
func Create(g *graph.Graph, registry *component.Registry, delayed bool) (*Network, error) {
	n := &Network{
		Graph:     g,
		Registry:  registry,
		Scheduler: NewScheduler(),
		processes: make(map[string]*Process),
	}
	n.reconcile = newReconciler(n)

	if len(g.Nodes.List()) == 0 || delayed {
		return n, nil
	}
	if err := n.Connect(); err != nil {
		return nil, err
	}
	if err := n.Start(); err != nil {
		return nil, err
	}
	return n, nil
}

// Connect wires every node, edge and initial in the graph, in that order,
// then subscribes to further graph mutation for live reconciliation.
func (n *Network) Connect() error {
	for _, node := range n.Graph.Nodes.List() {
		if _, err := n.AddProcess(node.ID, node.Component); err != nil {
			return err
		}
	}
	for _, edge := range n.Graph.Edges.List() {
		if err := n.wireEdge(edge); err != nil {
			return err
		}
	}
	for _, initial := range n.Graph.Initials.List() {
		if err := n.wireInitial(initial); err != nil {
			return err
		}
	}
	n.reconcile.subscribe()
	return nil
}

func (n *Network) wireEdge(e *graph.Edge) error {
	socket := port.NewSocket()
	socket.SetEndpoints(
		port.Endpoint{Node: e.Src.Node, Port: e.Src.Port, Index: e.Src.Index},
		port.Endpoint{Node: e.Tgt.Node, Port: e.Tgt.Port, Index: e.Tgt.Index},
	)

	if err := n.connectPort(socket, e.Src.Node, e.Src.Port, e.Src.Index, false); err != nil {
		return err
	}
	if err := n.connectPort(socket, e.Tgt.Node, e.Tgt.Port, e.Tgt.Index, true); err != nil {
		return err
	}
	n.subscribeSocket(socket)

	n.mu.Lock()
	n.connections = append(n.connections, &Connection{Socket: socket, Edge: e})
	n.mu.Unlock()
	return nil
}

func (n *Network) wireInitial(i *graph.Initial) error {
	socket := port.NewSocket()
	socket.SetEndpoints(port.Endpoint{}, port.Endpoint{Node: i.Tgt.Node, Port: i.Tgt.Port, Index: i.Tgt.Index})

	if err := n.connectPort(socket, i.Tgt.Node, i.Tgt.Port, i.Tgt.Index, true); err != nil {
		return err
	}
	n.subscribeSocket(socket)

	conn := &Connection{Socket: socket, Initial: i}
	n.mu.Lock()
	n.connections = append(n.connections, conn)
	n.pending = append(n.pending, conn)
	n.mu.Unlock()
	return nil
}

// connectPort resolves process/port/index and attaches socket to it,
// respecting the port's addressable flag. inbound selects InPort vs
// OutPort.
func (n *Network) connectPort(socket *port.InternalSocket, nodeID, portName string, index *int, inbound bool) error {
	n.mu.Lock()
	proc, ok := n.processes[nodeID]
	n.mu.Unlock()
	if !ok {
		return fmt.Errorf("network: no such process %q", nodeID)
	}

	if inbound {
		p, ok := proc.Instance.InPorts()[portName]
		if !ok {
			return fmt.Errorf("network: process %q has no inport %q", nodeID, portName)
		}
		if !p.Addressable {
			index = nil
		}
		p.Bind(portName, proc.Instance)
		p.Attach(socket, index)
		return nil
	}

	p, ok := proc.Instance.OutPorts()[portName]
	if !ok {
		return fmt.Errorf("network: process %q has no outport %q", nodeID, portName)
	}
	if !p.Addressable {
		index = nil
	}
	p.Attach(socket, index)
	return nil
}

func (n *Network) subscribeSocket(s *port.InternalSocket) {
	s.On("connect", func(bus.Fields) { n.increaseActivity() })
	s.On("disconnect", func(bus.Fields) { n.decreaseActivity() })
	for _, event := range []string{"connect", "begingroup", "data", "endgroup", "disconnect"} {
		ev := event
		s.On(ev, func(data bus.Fields) {
			data["id"] = s.ID()
			data["socket"] = s
			n.Emit(ev, data)
		})
	}
}

// Start sends every queued initial. It does not set the running state
// itself: that follows socket activity once the first connect arrives.
func (n *Network) Start() error {
	return n.SendInitials()
}

// Stop disconnects every connected socket, then shuts down every process.
func (n *Network) Stop() error {
	n.mu.Lock()
	conns := append([]*Connection(nil), n.connections...)
	procs := make([]*Process, 0, len(n.processes))
	for _, p := range n.processes {
		procs = append(procs, p)
	}
	n.mu.Unlock()

	for _, c := range conns {
		if c.Socket.Connected() {
			c.Socket.Disconnect()
		}
	}
	for _, p := range procs {
		if err := p.Instance.Shutdown(); err != nil {
			return err
		}
	}
	return nil
}

// Uptime reports how long the network has been continuously running.
func (n *Network) Uptime() time.Duration {
	n.activityMu.Lock()
	defer n.activityMu.Unlock()
	if !n.running {
		return 0
	}
	return n.Scheduler.Now().Sub(n.startedAt)
}
