package core

import (
	"strings"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/port"
	"github.com/protoflo/protoflo/protolog"
)

// outputInstance logs every packet received on "in", tagged with whatever
// group brackets it arrived under, and forwards it unchanged to "out".
type outputInstance struct {
	*component.Base

	groups []string
}

// NewOutput constructs an Output instance.
func NewOutput() component.Instance {
	o := &outputInstance{}
	o.Base = component.NewBase(component.Declaration{
		Description: "logs and passes through its input",
		InPorts: map[string]port.Descriptor{
			"in": {ID: "in", Required: true},
		},
		OutPorts: map[string]port.Descriptor{
			"out": {ID: "out"},
		},
	}, nil, nil)
	o.InPorts()["in"].SetProcess(o.process)
	return o
}

func (o *outputInstance) process(event string, _ any, data bus.Fields) {
	out := o.OutPorts()["out"]
	switch event {
	case "connect":
		_ = out.Connect(nil)
	case "begingroup":
		name, _ := data["group"].(string)
		o.groups = append(o.groups, name)
		_ = out.BeginGroup(name, nil)
	case "data":
		o.log(data["data"])
		_ = out.Send(data["data"], nil)
	case "endgroup":
		if len(o.groups) > 0 {
			o.groups = o.groups[:len(o.groups)-1]
		}
		_ = out.EndGroup(nil)
	case "disconnect":
		_ = out.Disconnect(nil)
	}
}

func (o *outputInstance) log(data any) {
	logger := protolog.GetDefaultLogger()
	if len(o.groups) > 0 {
		logger = protolog.WithFields(logger, protolog.Fields{"groups": strings.Join(o.groups, ">")})
	}
	logger.Info("output: %v", data)
}

// Initialize only marks outputInstance ready: it needs no other setup
// beyond construction.
func (o *outputInstance) Initialize(map[string]any) error {
	o.SetReady(true)
	return nil
}

// Shutdown is a no-op.
func (o *outputInstance) Shutdown() error { return nil }
