package network

// SendInitials schedules a zero-delay task that, for each queued initial,
// calls connect, send(data), disconnect on its socket, then empties the
// queue. It is safe to call repeatedly; newly added initials after the
// network has started simply retrigger it.
func (n *Network) SendInitials() error {
	n.Scheduler.Schedule(0, n.drainInitials)
	return nil
}

// drainInitials snapshots and clears the pending queue under lock before
// dispatching, so initials added while dispatch is running are queued for
// the next drain rather than racing this one.
func (n *Network) drainInitials() {
	n.mu.Lock()
	batch := n.pending
	n.pending = nil
	n.mu.Unlock()

	for _, c := range batch {
		c.Socket.Connect()
		c.Socket.Send(c.Initial.Data)
		c.Socket.Disconnect()
	}
}
