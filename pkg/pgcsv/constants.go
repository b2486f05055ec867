package pgcsv

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitLoadFailed      = 13 // A COPY statement failed
	ExitSourceMissing   = 14 // Root directory not found
)

const (
	// DefaultTable is the target table when none is configured.
	DefaultTable = "flights"

	// DefaultDelimiter is the CSV field separator passed to COPY.
	DefaultDelimiter = ','

	// DefaultDirSuffix selects first-level directories under the root.
	DefaultDirSuffix = ".csv"

	// DefaultFileSuffix selects files inside the matched directories.
	DefaultFileSuffix = ".csv"

	// DefaultManagementDB is the database used when none is given anywhere.
	DefaultManagementDB = "postgres"

	// ApplicationName is reported to the server as application_name.
	ApplicationName = "pgcsv"

	// MaxErrorPreviewLength bounds the statement text echoed in error messages.
	MaxErrorPreviewLength = 200
)

// DefaultColumns is the OpenSky state vector layout. Order must match the CSV columns.
var DefaultColumns = []string{
	"et", "icao24", "lat", "lon", "velocity", "heading", "vertrate", "callsign",
	"onground", "alert", "spi", "squawk", "baroaltitude", "geoaltitude",
	"lastposupdate", "lastcontact",
}
