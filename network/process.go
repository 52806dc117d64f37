package network

import (
	"fmt"

	"github.com/protoflo/protoflo/bus"
)

// AddProcess loads component via the registry and wires it into the
// network under nodeID. Adding an id that already has a process is a
// no-op that returns the existing process.
func (n *Network) AddProcess(nodeID, componentName string) (*Process, error) {
	n.mu.Lock()
	if p, ok := n.processes[nodeID]; ok {
		n.mu.Unlock()
		return p, nil
	}
	n.mu.Unlock()

	inst, err := n.Registry.Load(componentName)
	if err != nil {
		return nil, fmt.Errorf("network: loading component %q for node %q: %w", componentName, nodeID, err)
	}
	inst.SetNodeID(nodeID)

	p := &Process{ID: nodeID, Instance: inst}

	if err := inst.Initialize(nil); err != nil {
		return nil, fmt.Errorf("network: initializing node %q: %w", nodeID, err)
	}

	if inst.Subgraph() {
		n.subscribeSubgraph(p)
	}
	inst.On("icon", func(data bus.Fields) {
		data["id"] = nodeID
		n.Emit("icon", data)
	})

	n.mu.Lock()
	n.processes[nodeID] = p
	n.mu.Unlock()

	n.Emit("addNode", bus.Fields{"id": nodeID, "component": componentName})
	return p, nil
}

// RemoveProcess disconnects and forgets the process at nodeID, if any.
func (n *Network) RemoveProcess(nodeID string) error {
	n.mu.Lock()
	p, ok := n.processes[nodeID]
	if !ok {
		n.mu.Unlock()
		return nil
	}
	var toDrop []*Connection
	var kept []*Connection
	for _, c := range n.connections {
		if touchesNode(c, nodeID) {
			toDrop = append(toDrop, c)
		} else {
			kept = append(kept, c)
		}
	}
	n.connections = kept
	delete(n.processes, nodeID)
	n.mu.Unlock()

	for _, c := range toDrop {
		if c.Socket.Connected() {
			c.Socket.Disconnect()
		}
	}
	if err := p.Instance.Shutdown(); err != nil {
		return err
	}
	n.Emit("removeNode", bus.Fields{"id": nodeID})
	return nil
}

// RenameProcess updates a process's node id and rebinds every port still
// carrying the old name, iterating the instance's own port maps directly
// rather than a stale local variable (the bug present in the runtime this
// network model is ported from).
func (n *Network) RenameProcess(oldID, newID string) error {
	n.mu.Lock()
	p, ok := n.processes[oldID]
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("network: no such process %q", oldID)
	}
	delete(n.processes, oldID)
	p.ID = newID
	n.processes[newID] = p

	for _, c := range n.connections {
		src, tgt := c.Socket.Src, c.Socket.Tgt
		changed := false
		if src.Node == oldID {
			src.Node = newID
			changed = true
		}
		if tgt.Node == oldID {
			tgt.Node = newID
			changed = true
		}
		if changed {
			c.Socket.SetEndpoints(src, tgt)
		}
	}
	n.mu.Unlock()

	p.Instance.SetNodeID(newID)
	for name, ip := range p.Instance.InPorts() {
		ip.Bind(name, p.Instance)
	}
	for range p.Instance.OutPorts() {
		// outports carry no bound name/instance state to refresh.
	}

	n.Emit("renameNode", bus.Fields{"oldId": oldID, "newId": newID})
	return nil
}

func touchesNode(c *Connection, nodeID string) bool {
	if c.Edge != nil {
		return c.Edge.Src.Node == nodeID || c.Edge.Tgt.Node == nodeID
	}
	if c.Initial != nil {
		return c.Initial.Tgt.Node == nodeID
	}
	return false
}
