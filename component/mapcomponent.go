package component

import (
	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/port"
)

// MapFunc transforms a single data packet received on "in" into the
// packet sent on "out".
type MapFunc func(data any) (any, error)

// MapComponent wraps a component's single in/out port pair into a
// process(event, nodeInstance, data) consolidated callback: connect,
// begingroup, endgroup and disconnect on "in" are forwarded to "out" as
// they arrive, and each data packet is passed through the map function, so
// a map function never has to manage groups itself. No group stack is
// kept; an error from the map function is sent on "error" instead.
type MapComponent struct {
	*Base

	fn MapFunc
}

// NewMapComponent declares a component with exactly one inport ("in") and
// one outport ("out"), applying fn to every packet that arrives.
func NewMapComponent(description string, fn MapFunc) *MapComponent {
	base := NewBase(Declaration{
		Description: description,
		InPorts: map[string]port.Descriptor{
			"in": {ID: "in", Required: true},
		},
		OutPorts: map[string]port.Descriptor{
			"out":   {ID: "out"},
			"error": {ID: "error"},
		},
	}, nil, nil)

	m := &MapComponent{Base: base, fn: fn}
	base.InPorts()["in"].SetProcess(m.process)
	return m
}

func (m *MapComponent) process(event string, _ any, data bus.Fields) {
	out := m.OutPorts()["out"]
	switch event {
	case "connect":
		_ = out.Connect(nil)
	case "begingroup":
		_ = out.BeginGroup(data["group"].(string), nil)
	case "data":
		result, err := m.fn(data["data"])
		if err != nil {
			_ = Error(m.OutPorts()["error"], err)
			return
		}
		_ = out.Send(result, nil)
	case "endgroup":
		_ = out.EndGroup(nil)
	case "disconnect":
		_ = out.Disconnect(nil)
	}
}

// Initialize only marks the component ready: MapComponent needs no other
// setup beyond construction.
func (m *MapComponent) Initialize(options map[string]any) error {
	m.SetReady(true)
	return nil
}

// Shutdown is a no-op.
func (m *MapComponent) Shutdown() error { return nil }
