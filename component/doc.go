// Package component implements the running-instance contract every
// component in the network obeys (port declarations merged at
// construction, an error-signalling helper, readiness) and the registry
// that discovers, instantiates and caches component descriptors.
//
// Discovery in the original runtime reflects over installed Python
// modules named "protoflo*" at an implementation-defined search path.
// That has no idiomatic Go equivalent — Go programs are statically
// linked, so there is nothing to scan at runtime. Registry.Register takes
// the place of reflective discovery: each collection registers its own
// manifest of short name → factory/subgraph-path up front, typically from
// an init function in the collection's package.
package component
