package protocol

import (
	"context"
	"fmt"

	"github.com/protoflo/protoflo/cachestore"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/port"
)

// RegisterComponent installs the "component" sub-protocol's commands on d.
func RegisterComponent(d *Dispatcher, state *State) {
	d.Register("component", "list", func(p Payload, sender Sender) error {
		entries, err := state.Registry.ListCached(context.Background())
		if err != nil {
			return err
		}
		for _, e := range entries {
			sendComponentEntry(sender, e)
		}
		return nil
	})

	d.Register("component", "getsource", func(p Payload, sender Sender) error {
		return fmt.Errorf("Not Implemented")
	})
	d.Register("component", "source", func(p Payload, sender Sender) error {
		return fmt.Errorf("Not Implemented")
	})
}

func sendComponentEntry(sender Sender, e cachestore.Entry) {
	sender.Send(Envelope{Protocol: "component", Command: "component", Payload: map[string]any{
		"name":        e.Name,
		"description": e.Description,
		"icon":        e.Icon,
		"subgraph":    e.Subgraph,
		"inPorts":     descriptorList(e.InPorts),
		"outPorts":    descriptorList(e.OutPorts),
	}})
}

// sendSubgraphComponentMessage emits a "component" message for a live,
// in-memory graph registered as a subgraph, rebuilt from its current
// exported ports rather than from the on-disk cache a file-backed
// collection uses.
func sendSubgraphComponentMessage(sender Sender, state *State, id string, g *graph.Graph) {
	sender.Send(Envelope{Protocol: "component", Command: "component", Payload: map[string]any{
		"name":        "graph/" + id,
		"description": "",
		"subgraph":    true,
		"inPorts":     portDescriptors(state, g, g.Inports),
		"outPorts":    portDescriptors(state, g, g.Outports),
	}})
}

func descriptorList(descs []port.Descriptor) []map[string]any {
	out := make([]map[string]any, 0, len(descs))
	for _, d := range descs {
		out = append(out, map[string]any{
			"id":          d.ID,
			"type":        d.Datatype,
			"description": d.Description,
			"required":    d.Required,
			"addressable": d.Addressable,
			"default":     d.Default,
		})
	}
	return out
}
