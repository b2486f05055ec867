package pgcsv

// Logger provides a pluggable logging interface for pgcsv operations.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Success logs a completed step (file loaded, connection opened).
	Success(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}
