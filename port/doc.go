// Package port implements the process-boundary primitives of the runtime:
// OutPort and InPort, the InternalSocket that exclusively connects exactly
// one of each, and the sparse indexing scheme addressable ports use to
// support fan-in/fan-out over a single named port.
//
// A socket is the only channel through which data moves between two
// processes. Ports never talk to each other directly; they attach sockets
// and fan every lifecycle call (connect, beginGroup, send, endGroup,
// disconnect) out to whichever sockets are currently attached.
package port
