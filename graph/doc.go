// Package graph implements the transactional, observable flow-graph data
// model described by the NoFlo/Flowhub runtime protocol: nodes, edges,
// initial information packets, exported ports and groups, all mutated
// under an implicit-or-named transaction and all emitting events that a
// network or control-protocol layer can subscribe to.
//
// A Graph owns five child collections (Nodes, Edges, Initials, Inports,
// Outports) plus a Groups collection. Every collection embeds bus.Bus and
// is individually observable; the Graph itself relays each collection's
// events onto its own bus under a composed name (Nodes' "add" becomes the
// Graph's "addNode", and so on), following the wildcard-relay pattern
// described in the runtime's design notes.
package graph
