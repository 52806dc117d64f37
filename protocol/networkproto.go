package protocol

import (
	"time"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/network"
)

const isoLayout = time.RFC3339

// RegisterNetwork installs the "network" sub-protocol's commands on d.
func RegisterNetwork(d *Dispatcher, state *State) {
	d.Register("network", "start", func(p Payload, sender Sender) error {
		id, err := p.String("graph")
		if err != nil {
			return err
		}
		g, ok := state.getGraph(id)
		if !ok {
			return unknownGraph(id)
		}

		n, err := network.Create(g, state.Registry, true)
		if err != nil {
			return err
		}
		subscribeNetworkEvents(n, id, state, sender)

		if err := n.Connect(); err != nil {
			return err
		}
		state.setNetwork(id, n)
		if err := n.Start(); err != nil {
			return err
		}

		sender.Send(Envelope{Protocol: "network", Command: "started", Payload: map[string]any{
			"graph": id,
			"time":  time.Now().UTC().Format(isoLayout),
		}})
		return nil
	})

	d.Register("network", "stop", func(p Payload, sender Sender) error {
		id, err := p.String("graph")
		if err != nil {
			return err
		}
		n, ok := state.getNetwork(id)
		if !ok {
			return unknownGraph(id)
		}
		if err := n.Stop(); err != nil {
			return err
		}

		sender.Send(Envelope{Protocol: "network", Command: "stopped", Payload: map[string]any{
			"graph": id,
			"time":  time.Now().UTC().Format(isoLayout),
		}})
		return nil
	})

	d.Register("network", "edges", func(p Payload, sender Sender) error {
		ids, _ := p.Required("ids")
		list, _ := ids.([]any)
		socketIDs := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				socketIDs = append(socketIDs, s)
			}
		}
		state.setEdgeAllowlist(sender.ClientID(), socketIDs)
		return nil
	})
}

// subscribeNetworkEvents forwards a running network's dataflow and
// lifecycle events to sender. Dataflow events are gated by the client's
// current "edges" allowlist, which defaults to open until that client
// issues an "edges" call. The allowlist is kept per client, not per
// network, so it applies to every network that client observes.
func subscribeNetworkEvents(n *network.Network, graphID string, state *State, sender Sender) {
	for _, event := range []string{"connect", "begingroup", "data", "endgroup", "disconnect"} {
		ev := event
		n.On(ev, func(f bus.Fields) {
			socketID, _ := f["id"].(string)
			if !state.edgeAllowed(sender.ClientID(), socketID) {
				return
			}
			payload := map[string]any{"graph": graphID}
			for k, v := range f {
				if k == "socket" {
					continue
				}
				payload[k] = v
			}
			sender.Send(Envelope{Protocol: "network", Command: ev, Payload: payload})
		})
	}

	n.On("icon", func(f bus.Fields) {
		sender.Send(Envelope{Protocol: "network", Command: "icon", Payload: map[string]any{
			"graph": graphID, "id": f["id"], "icon": f["icon"],
		}})
	})
}
