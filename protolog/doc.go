// Package protolog provides a simple, leveled logging interface used
// throughout the runtime and its CLI.
//
// # Log Levels
//
// The package supports five log levels, in order of increasing severity:
//
//   - LogLevelDebug: Detailed debugging information for development
//   - LogLevelInfo: General informational messages about normal operation
//   - LogLevelWarn: Warning messages for potentially problematic situations
//   - LogLevelError: Error messages for failures that need attention
//   - LogLevelNone: Disables all logging output
//
// # Example Usage
//
//	logger := protolog.NewDefaultLogger(protolog.LogLevelInfo)
//	logger.Info("network %s starting", graphID)
//	logger.Warn("cache write failed for collection %q: %v", name, err)
//
// # Available Implementations
//
// DefaultLogger wraps the standard library's log package. GologLogger
// wraps an existing github.com/kataras/golog logger for callers who
// already use golog elsewhere in their process.
//
//	glogger := golog.New()
//	logger := protolog.NewGologLogger(glogger)
//
// Package-level SetDefaultLogger/Debug/Info/Warn/Error let callers log
// without threading a Logger value through every function signature.
package protolog
