package component

import (
	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/port"
)

// Instance is the contract the network holds a running component by. Base
// implements everything but Initialize/Shutdown, which concrete
// components supply.
type Instance interface {
	NodeID() string
	SetNodeID(id string)
	InPorts() map[string]*port.InPort
	OutPorts() map[string]*port.OutPort
	Ready() bool
	SetReady(ready bool)
	Subgraph() bool
	Initialize(options map[string]any) error
	Shutdown() error
}

// Declaration is a component class's static, copy-on-instantiate
// description: everything true of every instance before port overrides
// are applied.
type Declaration struct {
	Description string
	Icon        string
	Subgraph    bool
	InPorts     map[string]port.Descriptor
	OutPorts    map[string]port.Descriptor
}

// Base implements the port-merge, readiness and icon bookkeeping shared by
// every component. Concrete components embed Base and supply Initialize
// and Shutdown.
type Base struct {
	bus.Bus

	description string
	icon        string
	subgraph    bool
	nodeID      string
	ready       bool

	inPorts  map[string]*port.InPort
	outPorts map[string]*port.OutPort
}

// NewBase constructs a Base from a class declaration plus instance
// overrides, which extend (never replace) the class-level declarations:
// the merge rule is class declarations deep-copied first, instance
// additions overlaid on top.
func NewBase(decl Declaration, inOverrides, outOverrides map[string]port.Descriptor) *Base {
	b := &Base{
		description: decl.Description,
		icon:        decl.Icon,
		subgraph:    decl.Subgraph,
		inPorts:     make(map[string]*port.InPort),
		outPorts:    make(map[string]*port.OutPort),
	}

	merged := mergeDescriptors(decl.InPorts, inOverrides)
	for name, d := range merged {
		b.inPorts[name] = port.NewInPort(d)
	}
	merged = mergeDescriptors(decl.OutPorts, outOverrides)
	for name, d := range merged {
		b.outPorts[name] = port.NewOutPort(d)
	}

	return b
}

func mergeDescriptors(base, overrides map[string]port.Descriptor) map[string]port.Descriptor {
	out := make(map[string]port.Descriptor, len(base)+len(overrides))
	for name, d := range base {
		out[name] = d.Clone()
	}
	for name, d := range overrides {
		out[name] = d.Clone()
	}
	return out
}

// NodeID returns the id the network imprinted on this instance, or "" if
// it has not been wired into a network yet.
func (b *Base) NodeID() string { return b.nodeID }

// SetNodeID imprints the network's node id onto the instance.
func (b *Base) SetNodeID(id string) { b.nodeID = id }

// InPorts returns every declared inport, keyed by (lowercase) name.
func (b *Base) InPorts() map[string]*port.InPort { return b.inPorts }

// OutPorts returns every declared outport, keyed by (lowercase) name.
func (b *Base) OutPorts() map[string]*port.OutPort { return b.outPorts }

// Ready reports whether the component has finished any asynchronous setup
// started in Initialize.
func (b *Base) Ready() bool { return b.ready }

// SetReady flips readiness and, on the transition to true, emits "ready".
func (b *Base) SetReady(ready bool) {
	if ready == b.ready {
		return
	}
	b.ready = ready
	if ready {
		b.Emit("ready", nil)
	}
}

// Subgraph reports whether this component wraps a nested network.
func (b *Base) Subgraph() bool { return b.subgraph }

// Icon returns the component's current icon name.
func (b *Base) Icon() string { return b.icon }

// SetIcon updates the icon and emits "icon", used by components that
// change their icon to reflect state (e.g. a running/idle indicator).
func (b *Base) SetIcon(icon string) {
	b.icon = icon
	b.Emit("icon", bus.Fields{"icon": icon})
}

// Description returns the component's declared description.
func (b *Base) Description() string { return b.description }
