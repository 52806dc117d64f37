package port

import "github.com/protoflo/protoflo/bus"

// ProcessFunc is the single consolidated socket-event callback a component
// may install in place of (or alongside) per-event handlers, receiving
// every event an attached socket fires. It backs the MapComponent helper.
type ProcessFunc func(event string, nodeInstance any, data bus.Fields)

// InPort is a component's inbound connection point. A component subscribes
// to socket lifecycle events either one at a time via On, or all at once
// via SetProcess.
type InPort struct {
	Descriptor

	slots        *slotMap
	handlers     map[string][]bus.Handler
	process      ProcessFunc
	name         string
	nodeInstance any
}

// NewInPort declares an inport from its descriptor.
func NewInPort(d Descriptor) *InPort {
	return &InPort{
		Descriptor: d.Clone(),
		slots:      newSlotMap(d.Addressable),
		handlers:   make(map[string][]bus.Handler),
	}
}

// Bind records the port name and the component instance that this port
// belongs to, so SetProcess callbacks and events carry context. It does not
// record the node id.
func (p *InPort) Bind(name string, nodeInstance any) {
	p.name = name
	p.nodeInstance = nodeInstance
}

// On installs fn for one of "data", "connect", "begingroup", "endgroup" or
// "disconnect".
func (p *InPort) On(event string, fn bus.Handler) {
	p.handlers[event] = append(p.handlers[event], fn)
}

// SetProcess installs a single callback invoked for every socket event,
// used by the MapComponent helper in place of per-event handlers.
func (p *InPort) SetProcess(fn ProcessFunc) {
	p.process = fn
}

// Attach wires socket to this port and subscribes every lifecycle event so
// it reaches the port's handlers and process callback.
func (p *InPort) Attach(socket *InternalSocket, index *int) int {
	slot := p.slots.attach(socket, index)
	for _, event := range []string{"connect", "begingroup", "data", "endgroup", "disconnect"} {
		ev := event
		socket.On(ev, func(data bus.Fields) { p.dispatch(ev, data) })
	}
	return slot
}

func (p *InPort) dispatch(event string, data bus.Fields) {
	for _, fn := range p.handlers[event] {
		fn(data)
	}
	if p.process != nil {
		p.process(event, p.nodeInstance, data)
	}
}

// Detach removes socket from this port and reports whether it was found.
func (p *InPort) Detach(socket *InternalSocket) bool {
	return p.slots.detach(socket)
}

// Attached reports whether at least one socket is attached.
func (p *InPort) Attached() bool { return p.slots.len() > 0 }

// Connected reports whether at least one attached socket is connected.
func (p *InPort) Connected() bool {
	for _, s := range p.slots.all() {
		if s.Connected() {
			return true
		}
	}
	return false
}

// Sockets returns every socket attached at index (nil selects all).
func (p *InPort) Sockets(index *int) []*InternalSocket {
	return p.slots.at(index)
}
