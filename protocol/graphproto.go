package protocol

import (
	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/graph"
)

// RegisterGraph installs the "graph" sub-protocol's commands on d.
func RegisterGraph(d *Dispatcher, state *State) {
	d.Register("graph", "clear", func(p Payload, sender Sender) error {
		id, err := p.String("id")
		if err != nil {
			return err
		}
		name := p.OptString("name", id)

		g := graph.New(name)
		if props := p.Metadata(); props != nil {
			g.SetProperties(props)
		}
		state.setGraph(id, g)
		subscribeGraphEvents(g, id, state, sender)

		if main, _ := p.Required("main"); main != true {
			registerGraphAsSubgraph(state, id, g)
			g.OnAll(func(string, bus.Fields) { sendSubgraphComponentMessage(sender, state, id, g) })
		}

		sender.Send(Envelope{Protocol: "graph", Command: "clear", Payload: map[string]any{
			"id": id, "name": name, "graph": id,
		}})
		return nil
	})

	d.Register("graph", "addnode", func(p Payload, sender Sender) error {
		id, err := p.String("graph")
		if err != nil {
			return err
		}
		g, ok := state.getGraph(id)
		if !ok {
			return unknownGraph(id)
		}
		nodeID, err := p.String("id")
		if err != nil {
			return err
		}
		comp, err := p.String("component")
		if err != nil {
			return err
		}
		g.Nodes.Add(nodeID, comp, p.Metadata())
		return nil
	})

	d.Register("graph", "removenode", func(p Payload, sender Sender) error {
		g, nodeID, err := requireGraphAndNode(p, state)
		if err != nil {
			return err
		}
		g.Nodes.Remove(nodeID)
		return nil
	})

	d.Register("graph", "renamenode", func(p Payload, sender Sender) error {
		id, err := p.String("graph")
		if err != nil {
			return err
		}
		g, ok := state.getGraph(id)
		if !ok {
			return unknownGraph(id)
		}
		from, err := p.String("from")
		if err != nil {
			return err
		}
		to, err := p.String("to")
		if err != nil {
			return err
		}
		g.Nodes.Rename(from, to)
		return nil
	})

	d.Register("graph", "changenode", func(p Payload, sender Sender) error {
		g, nodeID, err := requireGraphAndNode(p, state)
		if err != nil {
			return err
		}
		g.Nodes.SetMetadata(nodeID, p.Metadata())
		return nil
	})

	d.Register("graph", "addedge", func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		srcNode, srcPort, srcIdx, err := portRef(p, "src")
		if err != nil {
			return err
		}
		tgtNode, tgtPort, tgtIdx, err := portRef(p, "tgt")
		if err != nil {
			return err
		}
		g.Edges.AddIndex(srcNode, srcPort, srcIdx, tgtNode, tgtPort, tgtIdx, p.Metadata())
		return nil
	})

	d.Register("graph", "removeedge", func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		srcNode, srcPort, _, err := portRef(p, "src")
		if err != nil {
			return err
		}
		tgtNode, tgtPort, _, err := portRef(p, "tgt")
		if err != nil {
			return err
		}
		g.Edges.Remove(srcNode, srcPort, tgtNode, tgtPort)
		return nil
	})

	d.Register("graph", "changeedge", func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		srcNode, srcPort, _, err := portRef(p, "src")
		if err != nil {
			return err
		}
		tgtNode, tgtPort, _, err := portRef(p, "tgt")
		if err != nil {
			return err
		}
		g.Edges.SetMetadata(srcNode, srcPort, tgtNode, tgtPort, p.Metadata())
		return nil
	})

	d.Register("graph", "addinitial", func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		data, err := p.Required("src.data")
		if err != nil {
			return err
		}
		tgtNode, tgtPort, tgtIdx, err := portRef(p, "tgt")
		if err != nil {
			return err
		}
		g.Initials.AddIndex(data, tgtNode, tgtPort, tgtIdx, p.Metadata())
		return nil
	})

	d.Register("graph", "removeinitial", func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		tgtNode, tgtPort, _, err := portRef(p, "tgt")
		if err != nil {
			return err
		}
		g.Initials.Remove(tgtNode, tgtPort)
		return nil
	})

	registerExportCommands(d, state, "inport", func(g *graph.Graph) *graph.ExportCollection { return g.Inports })
	registerExportCommands(d, state, "outport", func(g *graph.Graph) *graph.ExportCollection { return g.Outports })
}

func registerExportCommands(d *Dispatcher, state *State, kind string, exports func(*graph.Graph) *graph.ExportCollection) {
	d.Register("graph", "add"+kind, func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		public, err := p.String("public")
		if err != nil {
			return err
		}
		process, err := p.String("node")
		if err != nil {
			return err
		}
		port, err := p.String("port")
		if err != nil {
			return err
		}
		exports(g).Add(public, process, port, p.Metadata())
		return nil
	})

	d.Register("graph", "remove"+kind, func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		public, err := p.String("public")
		if err != nil {
			return err
		}
		exports(g).Remove(public)
		return nil
	})

	d.Register("graph", "rename"+kind, func(p Payload, sender Sender) error {
		g, err := requireGraph(p, state)
		if err != nil {
			return err
		}
		from, err := p.String("from")
		if err != nil {
			return err
		}
		to, err := p.String("to")
		if err != nil {
			return err
		}
		exports(g).Rename(from, to)
		return nil
	})
}

// sendPorts emits the consolidated "ports" message: the graph's current
// exported in/out ports, with datatypes pulled from the component registry
// by each port's owning node's component.
func sendPorts(sender Sender, state *State, g *graph.Graph, p Payload) error {
	id, err := p.String("graph")
	if err != nil {
		return err
	}
	sender.Send(Envelope{Protocol: "graph", Command: "ports", Payload: map[string]any{
		"graph":    id,
		"inPorts":  portDescriptors(state, g, g.Inports),
		"outPorts": portDescriptors(state, g, g.Outports),
	}})
	return nil
}

func portDescriptors(state *State, g *graph.Graph, exports *graph.ExportCollection) []map[string]any {
	out := make([]map[string]any, 0, len(exports.List()))
	for _, e := range exports.List() {
		entry := map[string]any{"id": e.Public}
		node := g.Nodes.Get(e.Process)
		if node != nil {
			if inst, err := state.Registry.Load(node.Component); err == nil {
				if d, ok := inst.InPorts()[e.Port]; ok {
					entry["type"] = d.Datatype
				} else if d, ok := inst.OutPorts()[e.Port]; ok {
					entry["type"] = d.Datatype
				}
			}
		}
		out = append(out, entry)
	}
	return out
}

func requireGraph(p Payload, state *State) (*graph.Graph, error) {
	id, err := p.String("graph")
	if err != nil {
		return nil, err
	}
	g, ok := state.getGraph(id)
	if !ok {
		return nil, unknownGraph(id)
	}
	return g, nil
}

func requireGraphAndNode(p Payload, state *State) (*graph.Graph, string, error) {
	g, err := requireGraph(p, state)
	if err != nil {
		return nil, "", err
	}
	id, err := p.String("id")
	if err != nil {
		return nil, "", err
	}
	return g, id, nil
}

func portRef(p Payload, prefix string) (node, port string, index *int, err error) {
	node, err = p.String(prefix + ".node")
	if err != nil {
		return
	}
	port, err = p.String(prefix + ".port")
	if err != nil {
		return
	}
	index = p.OptIndex(prefix + ".index")
	return
}

func unknownGraph(id string) error {
	return &graphError{"unknown graph: " + id}
}

type graphError struct{ msg string }

func (e *graphError) Error() string { return e.msg }

// registerGraphAsSubgraph makes a graph loaded or created through the
// control protocol available as a component in its own right (fullName
// "graph/<id>"), matching "clear" without main set registering as a
// subgraph.
func registerGraphAsSubgraph(state *State, id string, g *graph.Graph) {
	state.registerSubgraph(id, g)
}

// portRefPayload converts a PortRef into its wire shape, stripping the
// index field entirely when absent rather than encoding a "none" sentinel.
func portRefPayload(ref graph.PortRef) map[string]any {
	out := map[string]any{"node": ref.Node, "port": ref.Port}
	if ref.Index != nil {
		out["index"] = *ref.Index
	}
	return out
}

// subscribeGraphEvents wires g's mutation events onto sender as the
// dotted wire-protocol commands, attaching the graph id to every payload.
func subscribeGraphEvents(g *graph.Graph, graphID string, state *State, sender Sender) {
	send := func(command string, payload map[string]any) {
		payload["graph"] = graphID
		sender.Send(Envelope{Protocol: "graph", Command: command, Payload: payload})
	}

	g.Nodes.On("add", func(f bus.Fields) {
		send("addnode", map[string]any{"id": f["id"], "component": f["component"], "metadata": f["metadata"]})
	})
	g.Nodes.On("remove", func(f bus.Fields) {
		send("removenode", map[string]any{"id": f["id"]})
	})
	g.Nodes.On("rename", func(f bus.Fields) {
		send("renamenode", map[string]any{"from": f["oldId"], "to": f["newId"]})
	})
	g.Nodes.On("change", func(f bus.Fields) {
		send("changenode", map[string]any{"id": f["id"], "metadata": f["metadata"]})
	})

	g.Edges.On("add", func(f bus.Fields) {
		e := f["edge"].(*graph.Edge)
		send("addedge", map[string]any{"src": portRefPayload(e.Src), "tgt": portRefPayload(e.Tgt), "metadata": e.Metadata})
	})
	g.Edges.On("remove", func(f bus.Fields) {
		e := f["edge"].(*graph.Edge)
		send("removeedge", map[string]any{"src": portRefPayload(e.Src), "tgt": portRefPayload(e.Tgt)})
	})
	g.Edges.On("change", func(f bus.Fields) {
		e := f["edge"].(*graph.Edge)
		send("changeedge", map[string]any{"src": portRefPayload(e.Src), "tgt": portRefPayload(e.Tgt), "metadata": e.Metadata})
	})

	g.Initials.On("add", func(f bus.Fields) {
		in := f["initial"].(*graph.Initial)
		send("addinitial", map[string]any{"src": map[string]any{"data": in.Data}, "tgt": portRefPayload(in.Tgt), "metadata": in.Metadata})
	})
	g.Initials.On("remove", func(f bus.Fields) {
		in := f["initial"].(*graph.Initial)
		send("removeinitial", map[string]any{"tgt": portRefPayload(in.Tgt)})
	})

	for _, exports := range []struct {
		coll   *graph.ExportCollection
		prefix string
	}{{g.Inports, "inport"}, {g.Outports, "outport"}} {
		coll, prefix := exports.coll, exports.prefix
		coll.On("add", func(f bus.Fields) {
			send("add"+prefix, map[string]any{"public": f["public"], "node": f["process"], "port": f["port"], "metadata": f["metadata"]})
			sendPorts(sender, state, g, Payload{"graph": graphID})
		})
		coll.On("remove", func(f bus.Fields) {
			send("remove"+prefix, map[string]any{"public": f["public"]})
			sendPorts(sender, state, g, Payload{"graph": graphID})
		})
		coll.On("rename", func(f bus.Fields) {
			send("rename"+prefix, map[string]any{"from": f["oldId"], "to": f["newId"]})
			sendPorts(sender, state, g, Payload{"graph": graphID})
		})
	}
}
