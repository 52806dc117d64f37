package port

import "fmt"

// OutPort is a component's outbound connection point. Every lifecycle call
// fans out to each attached socket, or to the single slot selected by
// index for addressable ports.
type OutPort struct {
	Descriptor

	slots *slotMap
}

// NewOutPort declares an outport from its descriptor.
func NewOutPort(d Descriptor) *OutPort {
	return &OutPort{Descriptor: d.Clone(), slots: newSlotMap(d.Addressable)}
}

// Attach wires socket to this port, at index for addressable ports (nil
// selects the next free slot) or alongside any other attached sockets for
// non-addressable ports.
func (p *OutPort) Attach(socket *InternalSocket, index *int) int {
	return p.slots.attach(socket, index)
}

// Detach removes socket from this port and reports whether it was found.
func (p *OutPort) Detach(socket *InternalSocket) bool {
	return p.slots.detach(socket)
}

// Attached reports whether at least one socket is attached.
func (p *OutPort) Attached() bool { return p.slots.len() > 0 }

// Connected reports whether at least one attached socket is connected.
func (p *OutPort) Connected() bool {
	for _, s := range p.slots.all() {
		if s.Connected() {
			return true
		}
	}
	return false
}

// Connect opens every socket selected by index (nil selects all attached
// sockets).
func (p *OutPort) Connect(index *int) error {
	sockets, err := p.selected(index)
	if err != nil {
		return err
	}
	for _, s := range sockets {
		s.Connect()
	}
	return nil
}

// BeginGroup pushes name onto every selected socket's group stack.
func (p *OutPort) BeginGroup(name string, index *int) error {
	sockets, err := p.selected(index)
	if err != nil {
		return err
	}
	for _, s := range sockets {
		s.BeginGroup(name)
	}
	return nil
}

// Send delivers data to every selected socket, auto-connecting as needed.
func (p *OutPort) Send(data any, index *int) error {
	sockets, err := p.selected(index)
	if err != nil {
		return err
	}
	for _, s := range sockets {
		s.Send(data)
	}
	return nil
}

// EndGroup pops the innermost open group on every selected socket.
func (p *OutPort) EndGroup(index *int) error {
	sockets, err := p.selected(index)
	if err != nil {
		return err
	}
	for _, s := range sockets {
		s.EndGroup()
	}
	return nil
}

// Disconnect closes every selected socket.
func (p *OutPort) Disconnect(index *int) error {
	sockets, err := p.selected(index)
	if err != nil {
		return err
	}
	for _, s := range sockets {
		s.Disconnect()
	}
	return nil
}

func (p *OutPort) selected(index *int) ([]*InternalSocket, error) {
	if p.Addressable && index == nil && p.slots.len() > 1 {
		return nil, fmt.Errorf("port %s: addressable outport requires an index when more than one socket is attached", p.ID)
	}
	return p.slots.at(index), nil
}
