// Package protocol implements the JSON control protocol this runtime
// speaks over a transport.Conn: envelopes shaped {protocol, command,
// payload} routed by a Dispatcher to one of four sub-protocols (runtime,
// graph, component, network).
//
// Package layout: dispatcher.go (Envelope, Sender, Handler, Dispatcher,
// error-envelope mapping), payload.go (dotted-path required/optional key
// extraction), state.go (the per-server State shared by every sub-protocol:
// graphs, running networks, per-client edge allowlists), runtime.go
// (getruntime), graphproto.go (graph mutation commands, event re-emission,
// consolidated ports message), componentproto.go (component list),
// networkproto.go (network start/stop/edges), doc.go.
package protocol
