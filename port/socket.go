package port

import (
	"fmt"
	"strings"

	"github.com/protoflo/protoflo/bus"
)

// Endpoint identifies one side of a socket: the node id and port name it
// is wired to, plus an optional index for addressable ports.
type Endpoint struct {
	Node  string
	Port  string
	Index *int
}

// InternalSocket is the exclusive channel between exactly one OutPort and
// exactly one InPort. It carries no data of its own; it only fans
// lifecycle events between the two ports it bridges and tracks connection
// state and group nesting.
type InternalSocket struct {
	bus.Bus

	id  string
	Src Endpoint
	Tgt Endpoint

	connected bool
	groups    []string
}

// NewSocket allocates an unwired socket. Its id is "DATA -> DATA" until
// SetEndpoints attaches it to real Src/Tgt endpoints.
func NewSocket() *InternalSocket {
	s := &InternalSocket{}
	s.updateID()
	return s
}

// SetEndpoints records src/tgt and recomputes the socket's id from them,
// matching the literal "<srcNode>() <PORT> -> <PORT> <tgtNode>()" scheme a
// NoFlo-compatible client independently derives to populate
// "network edges" selections. src is the zero Endpoint for a socket fed by
// an initial information packet rather than another port.
func (s *InternalSocket) SetEndpoints(src, tgt Endpoint) {
	s.Src = src
	s.Tgt = tgt
	s.updateID()
}

func (s *InternalSocket) updateID() {
	from := "DATA"
	if s.Src.Node != "" {
		from = fmt.Sprintf("%s() %s", s.Src.Node, strings.ToUpper(s.Src.Port))
	}
	to := "DATA"
	if s.Tgt.Node != "" {
		to = fmt.Sprintf("%s %s()", strings.ToUpper(s.Tgt.Port), s.Tgt.Node)
	}
	s.id = fmt.Sprintf("%s -> %s", from, to)
}

// ID returns the socket's identifier.
func (s *InternalSocket) ID() string { return s.id }

// Connected reports whether Connect has been called without a matching
// Disconnect.
func (s *InternalSocket) Connected() bool { return s.connected }

// Connect opens the socket. A second Connect call while already connected
// is a no-op, matching the reference runtime's idempotence guarantee.
func (s *InternalSocket) Connect() {
	if s.connected {
		return
	}
	s.connected = true
	s.Emit("connect", bus.Fields{"socket": s})
}

// Disconnect closes the socket. Calling Disconnect while already
// disconnected is a no-op.
func (s *InternalSocket) Disconnect() {
	if !s.connected {
		return
	}
	s.connected = false
	s.Emit("disconnect", bus.Fields{"socket": s})
}

// BeginGroup pushes name onto the socket's group stack and emits
// begingroup.
func (s *InternalSocket) BeginGroup(name string) {
	s.groups = append(s.groups, name)
	s.Emit("begingroup", bus.Fields{"socket": s, "group": name})
}

// EndGroup pops the most recently pushed group name and emits endgroup
// with it. Calling EndGroup with no open group is a no-op.
func (s *InternalSocket) EndGroup() {
	if len(s.groups) == 0 {
		return
	}
	name := s.groups[len(s.groups)-1]
	s.groups = s.groups[:len(s.groups)-1]
	s.Emit("endgroup", bus.Fields{"socket": s, "group": name})
}

// Send delivers data, auto-connecting the socket first if it is not
// already connected.
func (s *InternalSocket) Send(data any) {
	s.Connect()
	s.Emit("data", bus.Fields{"socket": s, "data": data})
}

// Groups returns a snapshot of the socket's currently open group stack.
func (s *InternalSocket) Groups() []string {
	return append([]string(nil), s.groups...)
}
