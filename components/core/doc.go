// Package core bundles illustrative components for the cmd/protoflo CLI's
// "run" subcommand to have something to execute: Kick, Drop, Output, the
// four binary arithmetic components, and the Str/Int/Float/Boolean type
// casts. These are not part of the runtime core; Register wires them all
// into a Registry under the "core" collection.
package core
