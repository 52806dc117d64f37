package core

import (
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/port"
)

// Drop discards everything it receives on "in"; a sink for packets a
// graph wants to route away without further processing.
type Drop struct {
	*component.Base
}

// NewDrop constructs a Drop instance.
func NewDrop() component.Instance {
	base := component.NewBase(component.Declaration{
		Description: "discards everything received on in",
		InPorts: map[string]port.Descriptor{
			"in": {ID: "in", Required: true},
		},
	}, nil, nil)
	return &Drop{Base: base}
}

// Initialize only marks Drop ready: it needs no other setup beyond
// construction.
func (d *Drop) Initialize(map[string]any) error {
	d.SetReady(true)
	return nil
}

// Shutdown is a no-op.
func (d *Drop) Shutdown() error { return nil }
