// Package network executes a graph: it instantiates a process per node,
// wires an InternalSocket per edge and initial, tracks running activity
// through a debounced start/end lifecycle, and keeps the live network in
// sync with further graph mutations through a single-worker FIFO.
//
// Package layout: network.go (Create/connect/start/stop), process.go
// (process addition, port connection, renaming), activity.go (the
// activity counter and its debounce, behind an explicit Scheduler so
// tests can control time), initials.go (sendInitials), reconcile.go (the
// live-edit FIFO worker), subgraph.go (nested-network composition).
package network
