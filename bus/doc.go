// Package bus implements the named-event publish/subscribe primitive shared
// by every observable entity in protoflo: graphs and their sub-collections,
// ports, sockets, component instances and the network. It mirrors the
// on/once/off/emit contract of NoFlo's EventEmitter, including the "all"
// wildcard subscription used to relay child-collection events onto a
// parent.
package bus
