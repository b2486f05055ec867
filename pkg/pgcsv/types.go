package pgcsv

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IngestConfig contains all parameters needed for a load run.
type IngestConfig struct {
	// SourcePath is the root directory holding the *.csv batch directories
	SourcePath string

	// ConnectionString is the PostgreSQL connection string (URI format)
	ConnectionString string

	// Connection is the resolved connection configuration.
	// When nil, ConnectionString is parsed with standard authentication.
	Connection *ConnectionConfig

	// Table is the target table, optionally schema-qualified ("public.flights")
	Table string

	// Columns is the ordered column list; must match the CSV column order
	Columns []string

	// Delimiter is the field separator passed to COPY
	Delimiter rune

	// NoHeader loads the first line of each file as data. By default the
	// first line is a header row and is skipped.
	NoHeader bool

	// Mode selects client-side streaming or server-side file reads
	Mode LoadMode

	// DirSuffix and FileSuffix are the name filters for the two traversal levels
	DirSuffix  string
	FileSuffix string

	// Timeout bounds the whole run; zero means no limit
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// WithDefaults returns a copy of the config with empty load options filled in.
func (c IngestConfig) WithDefaults() IngestConfig {
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if len(c.Columns) == 0 {
		c.Columns = append([]string(nil), DefaultColumns...)
	}
	if c.Delimiter == 0 {
		c.Delimiter = DefaultDelimiter
	}
	if c.DirSuffix == "" {
		c.DirSuffix = DefaultDirSuffix
	}
	if c.FileSuffix == "" {
		c.FileSuffix = DefaultFileSuffix
	}
	return c
}

// Validate checks if the IngestConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *IngestConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" && c.Connection == nil {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(append(errs, c.ValidateLoadOptions())...)
}

// ValidateLoadOptions checks everything needed to discover files and render
// COPY statements. It does not require connection settings.
func (c *IngestConfig) ValidateLoadOptions() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	if len(c.Columns) == 0 {
		errs = append(errs, fmt.Errorf("at least one column is required: %w", ErrInvalidConfig))
	}
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		name := strings.TrimSpace(col)
		if name == "" {
			errs = append(errs, fmt.Errorf("column names cannot be empty: %w", ErrInvalidConfig))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("duplicate column %q: %w", name, ErrInvalidConfig))
		}
		seen[name] = true
	}

	switch c.Delimiter {
	case '\n', '\r', '"', 0:
		errs = append(errs, fmt.Errorf("invalid delimiter %q: %w", c.Delimiter, ErrInvalidConfig))
	}
	if c.Delimiter > 0x7f {
		errs = append(errs, fmt.Errorf("delimiter must be a single-byte character: %w", ErrInvalidConfig))
	}

	if !c.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("unknown load mode %d: %w", c.Mode, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// LoadMode selects where the database reads CSV content from.
type LoadMode int

const (
	// LoadModeClient streams each file over the connection with COPY ... FROM STDIN.
	LoadModeClient LoadMode = iota
	// LoadModeServer issues COPY ... FROM '<path>'; the server must be able to read the path.
	LoadModeServer
)

// String returns the flag spelling of the mode.
func (m LoadMode) String() string {
	switch m {
	case LoadModeClient:
		return "client"
	case LoadModeServer:
		return "server"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// IsValid returns true if the LoadMode is a defined value.
func (m LoadMode) IsValid() bool {
	return m == LoadModeClient || m == LoadModeServer
}

// ParseLoadMode converts "client" or "server" (case-insensitive) to a LoadMode.
// An empty string yields LoadModeClient.
func ParseLoadMode(s string) (LoadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "client", "stdin":
		return LoadModeClient, nil
	case "server", "file":
		return LoadModeServer, nil
	default:
		return LoadModeClient, fmt.Errorf("unknown load mode %q (expected client or server): %w", s, ErrInvalidConfig)
	}
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// CandidateFile is a discovered CSV file eligible for loading.
// Produced by traversal and consumed exactly once by the load step.
type CandidateFile struct {
	Path      string // Absolute path
	Name      string // File name: "states_2020-06-01-00.csv"
	Directory string // Parent directory name: "states_2020-06-01-00.csv"
	SizeBytes int64
}

// LoadResult is the outcome of a successful COPY for one file.
type LoadResult struct {
	File         CandidateFile
	RowsAffected int64
	Duration     time.Duration

	// Checksum is the SHA-256 of the bytes streamed in client mode.
	// Empty in server mode, where the server reads the file itself.
	Checksum string

	// BytesStreamed counts the bytes sent over COPY FROM STDIN. Zero in server mode.
	BytesStreamed int64
}

// IngestSummary describes a completed or aborted run.
type IngestSummary struct {
	RunID      uuid.UUID
	Discovered int
	Results    []LoadResult

	// FailedFile is the path of the file that stopped the run, empty on success
	FailedFile string
}

// TotalRows sums the rows loaded by every committed file.
func (s IngestSummary) TotalRows() int64 {
	var total int64
	for _, r := range s.Results {
		total += r.RowsAffected
	}
	return total
}
