package network

import (
	"sync"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/port"
	"github.com/protoflo/protoflo/protolog"
)

// reconciler keeps a running Network in sync with further mutation of its
// graph after Connect. Every graph event is translated into a job and
// appended to a FIFO queue, drained one at a time by a single worker
// goroutine, so concurrent edits never race each other's wiring. A job
// that fails is logged and skipped rather than aborting the queue,
// mirroring the fail-soft, keep-draining behavior of the runtime this
// package is modeled on.
type reconciler struct {
	net *Network

	mu    sync.Mutex
	queue []func() error
	wake  chan struct{}
	start sync.Once
}

func newReconciler(n *Network) *reconciler {
	return &reconciler{net: n, wake: make(chan struct{}, 1)}
}

// subscribe wires every live-edit graph event to a queued job and starts
// the drain worker. Safe to call once per network; Connect does so after
// the initial wiring pass completes.
func (r *reconciler) subscribe() {
	g := r.net.Graph

	g.On(graph.EventAddNode, func(data bus.Fields) {
		id, _ := data["id"].(string)
		comp, _ := data["component"].(string)
		r.enqueue(func() error {
			_, err := r.net.AddProcess(id, comp)
			return err
		})
	})
	g.On(graph.EventRemoveNode, func(data bus.Fields) {
		id, _ := data["id"].(string)
		r.enqueue(func() error { return r.net.RemoveProcess(id) })
	})
	g.On(graph.EventRenameNode, func(data bus.Fields) {
		oldID, _ := data["oldId"].(string)
		newID, _ := data["newId"].(string)
		r.enqueue(func() error { return r.net.RenameProcess(oldID, newID) })
	})
	g.On(graph.EventAddEdge, func(data bus.Fields) {
		e, _ := data["edge"].(*graph.Edge)
		r.enqueue(func() error {
			if e == nil {
				return nil
			}
			return r.net.wireEdge(e)
		})
	})
	g.On(graph.EventRemoveEdge, func(data bus.Fields) {
		e, _ := data["edge"].(*graph.Edge)
		r.enqueue(func() error {
			if e == nil {
				return nil
			}
			return r.net.unwireEdge(e)
		})
	})
	g.On(graph.EventAddInitial, func(data bus.Fields) {
		in, _ := data["initial"].(*graph.Initial)
		r.enqueue(func() error {
			if in == nil {
				return nil
			}
			if err := r.net.wireInitial(in); err != nil {
				return err
			}
			return r.net.SendInitials()
		})
	})
	g.On(graph.EventRemoveInitial, func(data bus.Fields) {
		in, _ := data["initial"].(*graph.Initial)
		r.enqueue(func() error {
			if in == nil {
				return nil
			}
			return r.net.unwireInitial(in)
		})
	})

	r.start.Do(func() { go r.run() })
}

func (r *reconciler) enqueue(job func() error) {
	r.mu.Lock()
	r.queue = append(r.queue, job)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *reconciler) run() {
	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.mu.Unlock()
			<-r.wake
			continue
		}
		job := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		if err := job(); err != nil {
			protolog.Error("network: reconcile job failed: %v", err)
		}
	}
}

// unwireEdge disconnects and forgets the connection backing e, if one is
// still wired.
func (n *Network) unwireEdge(e *graph.Edge) error {
	n.mu.Lock()
	var found *Connection
	kept := n.connections[:0:0]
	for _, c := range n.connections {
		if c.Edge == e {
			found = c
			continue
		}
		kept = append(kept, c)
	}
	n.connections = kept
	n.mu.Unlock()

	if found == nil {
		return nil
	}
	if found.Socket.Connected() {
		found.Socket.Disconnect()
	}
	n.detachConnection(found)
	return nil
}

// unwireInitial disconnects and forgets the connection backing in, and
// drops it from the pending queue if it had not yet been sent.
func (n *Network) unwireInitial(in *graph.Initial) error {
	n.mu.Lock()
	var found *Connection
	kept := n.connections[:0:0]
	for _, c := range n.connections {
		if c.Initial == in {
			found = c
			continue
		}
		kept = append(kept, c)
	}
	n.connections = kept

	pendingKept := n.pending[:0:0]
	for _, c := range n.pending {
		if c.Initial != in {
			pendingKept = append(pendingKept, c)
		}
	}
	n.pending = pendingKept
	n.mu.Unlock()

	if found == nil {
		return nil
	}
	if found.Socket.Connected() {
		found.Socket.Disconnect()
	}
	n.detachConnection(found)
	return nil
}

// detachConnection removes a connection's socket from whichever port(s) it
// was attached to, so a removed edge/initial doesn't leave a dangling slot.
func (n *Network) detachConnection(c *Connection) {
	n.detachFromInPort(c, c.Socket.Tgt)
	if c.Edge != nil {
		n.detachFromOutPort(c, c.Socket.Src)
	}
}

func (n *Network) detachFromInPort(c *Connection, tgt port.Endpoint) {
	n.mu.Lock()
	proc, ok := n.processes[tgt.Node]
	n.mu.Unlock()
	if !ok {
		return
	}
	if p, ok := proc.Instance.InPorts()[tgt.Port]; ok {
		p.Detach(c.Socket)
	}
}

func (n *Network) detachFromOutPort(c *Connection, src port.Endpoint) {
	n.mu.Lock()
	proc, ok := n.processes[src.Node]
	n.mu.Unlock()
	if !ok {
		return
	}
	if p, ok := proc.Instance.OutPorts()[src.Port]; ok {
		p.Detach(c.Socket)
	}
}
