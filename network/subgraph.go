package network

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/port"
)

var subgraphDeclaration = component.Declaration{
	Description: "a graph loaded and run as a single component",
	Subgraph:    true,
}

// SubgraphInstance is a component.Instance whose behavior is an entire
// nested Network: it loads a graph definition file, runs it internally,
// and exposes that graph's exported inports/outports as its own ports,
// bridging traffic between the two via an InternalSocket per export.
type SubgraphInstance struct {
	*component.Base

	path     string
	graphSrc *graph.Graph
	registry *component.Registry

	inner *Network
}

// NewSubgraphLoader returns a Registry.NewSubgraph hook that resolves
// paths under baseDir (ignored when ""), loads them as graph definitions
// and wraps each in a SubgraphInstance. Port declarations are left empty
// until Initialize, once the nested graph and its exports are known.
func NewSubgraphLoader(registry *component.Registry, baseDir string) func(path string) (component.Instance, error) {
	return func(path string) (component.Instance, error) {
		full := path
		if baseDir != "" && !filepath.IsAbs(path) {
			full = filepath.Join(baseDir, path)
		}
		return &SubgraphInstance{
			Base:     component.NewBase(subgraphDeclaration, nil, nil),
			path:     full,
			registry: registry,
		}, nil
	}
}

// NewSubgraphFromGraph wraps an already-parsed, in-memory graph (e.g. one
// built live through the control protocol's "graph" commands rather than
// loaded from a file) in a SubgraphInstance.
func NewSubgraphFromGraph(registry *component.Registry, g *graph.Graph) component.Instance {
	return &SubgraphInstance{
		Base:     component.NewBase(subgraphDeclaration, nil, nil),
		graphSrc: g,
		registry: registry,
	}
}

// Initialize loads the nested graph, wires and starts a Network for it,
// then rebuilds this instance's own ports to mirror the nested graph's
// exported inports/outports, bridging each to its inner counterpart.
func (s *SubgraphInstance) Initialize(options map[string]any) error {
	g := s.graphSrc
	if g == nil {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return fmt.Errorf("subgraph: reading %q: %w", s.path, err)
		}
		g, err = graph.Load(data, filepath.Base(s.path))
		if err != nil {
			return fmt.Errorf("subgraph: parsing %q: %w", s.path, err)
		}
	}

	inner, err := Create(g, s.registry, true)
	if err != nil {
		return fmt.Errorf("subgraph: creating network for %q: %w", s.path, err)
	}
	if err := inner.Connect(); err != nil {
		return fmt.Errorf("subgraph: wiring network for %q: %w", s.path, err)
	}
	s.inner = inner

	inExports := append(append([]*graph.ExportedPort(nil), g.Inports.List()...), s.discoverEdgePorts(g, true)...)
	outExports := append(append([]*graph.ExportedPort(nil), g.Outports.List()...), s.discoverEdgePorts(g, false)...)

	inOverrides := make(map[string]port.Descriptor)
	outOverrides := make(map[string]port.Descriptor)
	for _, exp := range inExports {
		d, ok := s.innerInPortDescriptor(exp)
		if !ok {
			continue
		}
		d.ID = exp.Public
		inOverrides[exp.Public] = d
	}
	for _, exp := range outExports {
		d, ok := s.innerOutPortDescriptor(exp)
		if !ok {
			continue
		}
		d.ID = exp.Public
		outOverrides[exp.Public] = d
	}
	s.Base = component.NewBase(subgraphDeclaration, inOverrides, outOverrides)

	for _, exp := range inExports {
		s.bridgeInport(exp)
	}
	for _, exp := range outExports {
		s.bridgeOutport(exp)
	}

	if err := inner.Start(); err != nil {
		return fmt.Errorf("subgraph: starting network for %q: %w", s.path, err)
	}

	for _, proc := range inner.processes {
		if proc.Instance.Ready() {
			continue
		}
		if signaler, ok := proc.Instance.(interface{ On(string, bus.Handler) }); ok {
			signaler.On("ready", func(bus.Fields) { s.updateReadiness() })
		}
	}
	s.updateReadiness()
	return nil
}

// discoverEdgePorts returns one synthetic ExportedPort, named
// "<nodeid>.<portname>" (lowercased), per inner port that is neither
// explicitly exported nor already wired to another node inside the
// nested graph. This is what lets a subgraph with no declared
// inports/outports still expose every dangling inner port to the
// outside world.
func (s *SubgraphInstance) discoverEdgePorts(g *graph.Graph, inbound bool) []*graph.ExportedPort {
	claimed := make(map[graph.PortRef]bool)
	exports := g.Outports.List()
	if inbound {
		exports = g.Inports.List()
	}
	for _, exp := range exports {
		claimed[graph.PortRef{Node: exp.Process, Port: exp.Port}] = true
	}

	var discovered []*graph.ExportedPort
	nodeIDs := make([]string, 0, len(s.inner.processes))
	for id := range s.inner.processes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	for _, nodeID := range nodeIDs {
		proc := s.inner.processes[nodeID]
		if inbound {
			for _, name := range sortedInPortNames(proc.Instance.InPorts()) {
				p := proc.Instance.InPorts()[name]
				if claimed[graph.PortRef{Node: nodeID, Port: name}] || p.Attached() {
					continue
				}
				discovered = append(discovered, &graph.ExportedPort{
					Public:  strings.ToLower(nodeID + "." + name),
					Process: nodeID,
					Port:    name,
				})
			}
			continue
		}
		for _, name := range sortedOutPortNames(proc.Instance.OutPorts()) {
			p := proc.Instance.OutPorts()[name]
			if claimed[graph.PortRef{Node: nodeID, Port: name}] || p.Attached() {
				continue
			}
			discovered = append(discovered, &graph.ExportedPort{
				Public:  strings.ToLower(nodeID + "." + name),
				Process: nodeID,
				Port:    name,
			})
		}
	}
	return discovered
}

func sortedInPortNames(ports map[string]*port.InPort) []string {
	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedOutPortNames(ports map[string]*port.OutPort) []string {
	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// updateReadiness flips this subgraph ready once every inner process's
// component has signalled its own readiness.
func (s *SubgraphInstance) updateReadiness() {
	for _, proc := range s.inner.processes {
		if !proc.Instance.Ready() {
			return
		}
	}
	s.SetReady(true)
}

// Shutdown stops the nested network.
func (s *SubgraphInstance) Shutdown() error {
	if s.inner == nil {
		return nil
	}
	return s.inner.Stop()
}

func (s *SubgraphInstance) innerInPortDescriptor(exp *graph.ExportedPort) (port.Descriptor, bool) {
	proc, ok := s.inner.processes[exp.Process]
	if !ok {
		return port.Descriptor{}, false
	}
	p, ok := proc.Instance.InPorts()[exp.Port]
	if !ok {
		return port.Descriptor{}, false
	}
	return p.Descriptor, true
}

func (s *SubgraphInstance) innerOutPortDescriptor(exp *graph.ExportedPort) (port.Descriptor, bool) {
	proc, ok := s.inner.processes[exp.Process]
	if !ok {
		return port.Descriptor{}, false
	}
	p, ok := proc.Instance.OutPorts()[exp.Port]
	if !ok {
		return port.Descriptor{}, false
	}
	return p.Descriptor, true
}

// bridgeInport wires external traffic arriving at this instance's exported
// inport onward to the real inport inside the nested network, via a
// socket permanently attached to the inner port.
func (s *SubgraphInstance) bridgeInport(exp *graph.ExportedPort) {
	proc, ok := s.inner.processes[exp.Process]
	if !ok {
		return
	}
	inner, ok := proc.Instance.InPorts()[exp.Port]
	if !ok {
		return
	}

	bridge := port.NewSocket()
	bridge.SetEndpoints(port.Endpoint{}, port.Endpoint{Node: exp.Process, Port: exp.Port})
	inner.Attach(bridge, nil)

	self, ok := s.InPorts()[exp.Public]
	if !ok {
		return
	}
	self.Bind(exp.Public, s)
	self.SetProcess(func(event string, _ any, data bus.Fields) {
		switch event {
		case "connect":
			bridge.Connect()
		case "begingroup":
			name, _ := data["group"].(string)
			bridge.BeginGroup(name)
		case "data":
			bridge.Send(data["data"])
		case "endgroup":
			bridge.EndGroup()
		case "disconnect":
			bridge.Disconnect()
		}
	})
}

// bridgeOutport wires the nested network's real outport onward to
// whatever is attached to this instance's exported outport, via a socket
// permanently attached to the inner port.
func (s *SubgraphInstance) bridgeOutport(exp *graph.ExportedPort) {
	proc, ok := s.inner.processes[exp.Process]
	if !ok {
		return
	}
	inner, ok := proc.Instance.OutPorts()[exp.Port]
	if !ok {
		return
	}

	bridge := port.NewSocket()
	bridge.SetEndpoints(port.Endpoint{Node: exp.Process, Port: exp.Port}, port.Endpoint{})
	inner.Attach(bridge, nil)

	self, ok := s.OutPorts()[exp.Public]
	if !ok {
		return
	}
	bridge.On("connect", func(bus.Fields) { self.Connect(nil) })
	bridge.On("begingroup", func(data bus.Fields) {
		name, _ := data["group"].(string)
		self.BeginGroup(name, nil)
	})
	bridge.On("data", func(data bus.Fields) { self.Send(data["data"], nil) })
	bridge.On("endgroup", func(bus.Fields) { self.EndGroup(nil) })
	bridge.On("disconnect", func(bus.Fields) { self.Disconnect(nil) })
}

// subscribeSubgraph ties a nested network's own activity into the parent
// network's activity counter, so the parent is not considered idle while
// a subgraph it hosts is still running, and re-emits every other inner
// event on the parent with the inner node's id prepended to the
// subgraph breadcrumb, so a client watching the parent network can see
// dataflow happening inside a running subgraph.
func (n *Network) subscribeSubgraph(p *Process) {
	sub, ok := p.Instance.(*SubgraphInstance)
	if !ok || sub.inner == nil {
		return
	}
	sub.inner.breadcrumb = append(append([]string(nil), n.breadcrumb...), p.ID)

	sub.inner.On("start", func(bus.Fields) { n.increaseActivity() })
	sub.inner.On("end", func(bus.Fields) { n.decreaseActivity() })
	sub.inner.OnAll(func(event string, data bus.Fields) {
		if event == "start" || event == "end" {
			return
		}
		forwarded := make(bus.Fields, len(data)+1)
		for k, v := range data {
			forwarded[k] = v
		}
		forwarded["subgraph"] = append([]string(nil), sub.inner.breadcrumb...)
		n.Emit(event, forwarded)
	})
}
