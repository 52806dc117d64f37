package core

import (
	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/port"
)

// Kick buffers the most recent packet (and the groups it arrived under)
// received on "in", and resends it to "out" every time "bang" fires.
type Kick struct {
	*component.Base

	data   any
	groups []string
	open   []string
	hasData bool
}

// NewKick constructs a Kick instance.
func NewKick() component.Instance {
	base := component.NewBase(component.Declaration{
		Description: "resends the last packet received on in whenever bang fires",
		InPorts: map[string]port.Descriptor{
			"in":   {ID: "in", Required: true},
			"bang": {ID: "bang", Required: true},
		},
		OutPorts: map[string]port.Descriptor{
			"out": {ID: "out"},
		},
	}, nil, nil)

	k := &Kick{Base: base}
	base.InPorts()["in"].SetProcess(k.processIn)
	base.InPorts()["bang"].On("data", k.processBang)
	return k
}

func (k *Kick) processIn(event string, _ any, data bus.Fields) {
	switch event {
	case "begingroup":
		k.open = append(k.open, data["group"].(string))
	case "data":
		k.data = data["data"]
		k.groups = append([]string(nil), k.open...)
		k.hasData = true
	case "endgroup":
		if len(k.open) > 0 {
			k.open = k.open[:len(k.open)-1]
		}
	}
}

func (k *Kick) processBang(bus.Fields) {
	if !k.hasData {
		return
	}
	out := k.OutPorts()["out"]
	_ = out.Connect(nil)
	for _, g := range k.groups {
		_ = out.BeginGroup(g, nil)
	}
	_ = out.Send(k.data, nil)
	for range k.groups {
		_ = out.EndGroup(nil)
	}
	_ = out.Disconnect(nil)
}

// Initialize only marks Kick ready: it needs no other setup beyond
// construction.
func (k *Kick) Initialize(map[string]any) error {
	k.SetReady(true)
	return nil
}

// Shutdown is a no-op.
func (k *Kick) Shutdown() error { return nil }
