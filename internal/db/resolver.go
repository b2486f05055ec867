package db

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/pgcsv/internal/config"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag.
// Use $PGPASSWORD or a connection string with embedded password instead.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Note: Database flag is excluded from this check because it can be used to override
// the database specified in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AuthFlags selects a cloud authentication method and carries its parameters.
// Secrets are NOT flags; AZURE_CLIENT_SECRET and the AWS credential chain come from the environment.
type AuthFlags struct {
	AWS       bool
	AWSRegion string

	Azure         bool
	AzureTenantID string // Overrides AZURE_TENANT_ID
	AzureClientID string // Overrides AZURE_CLIENT_ID

	Google         bool
	GoogleInstance string
}

func (a *AuthFlags) selected() int {
	n := 0
	for _, on := range []bool{a.AWS, a.Azure, a.Google} {
		if on {
			n++
		}
	}
	return n
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud provider variables pgcsv reads.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST                  string
	PGPORT                  string
	PGUSER                  string
	PGPASSWORD              string
	PGDATABASE              string
	PGSSLMODE               string
	DATABASE_URL            string // Full connection string (Heroku/Rails convention)
	PGCSV_CONNECTION_STRING string // Full connection string, preferred over DATABASE_URL

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string

	AWS_REGION         string
	AWS_DEFAULT_REGION string
}

// LoadFromEnvironment reads the variables listed in EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:                  os.Getenv("PGHOST"),
		PGPORT:                  os.Getenv("PGPORT"),
		PGUSER:                  os.Getenv("PGUSER"),
		PGPASSWORD:              os.Getenv("PGPASSWORD"),
		PGDATABASE:              os.Getenv("PGDATABASE"),
		PGSSLMODE:               os.Getenv("PGSSLMODE"),
		DATABASE_URL:            os.Getenv("DATABASE_URL"),
		PGCSV_CONNECTION_STRING: os.Getenv("PGCSV_CONNECTION_STRING"),
		AZURE_TENANT_ID:         os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:         os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:     os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:              os.Getenv("AWS_REGION"),
		AWS_DEFAULT_REGION:      os.Getenv("AWS_DEFAULT_REGION"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

func (e *EnvVars) connectionString() string {
	if e.PGCSV_CONNECTION_STRING != "" {
		return e.PGCSV_CONNECTION_STRING
	}
	return e.DATABASE_URL
}

// ParseAuthMethod converts the auth_method spelling used in pgcsv.yaml.
func ParseAuthMethod(s string) (pgcsv.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return pgcsv.AuthMethodStandard, nil
	case "aws", "aws-iam", "awsiam":
		return pgcsv.AuthMethodAWSIAM, nil
	case "google", "google-iam", "googleiam", "gcp":
		return pgcsv.AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return pgcsv.AuthMethodAzureEntraID, nil
	default:
		return pgcsv.AuthMethodStandard, fmt.Errorf("unknown auth_method %q: %w", s, pgcsv.ErrUnsupportedAuthMethod)
	}
}

// ResolveConnectionParams resolves connection parameters with this precedence:
//
//  1. Connection string flag (--connection)
//  2. PGCSV_CONNECTION_STRING, then DATABASE_URL, when no granular flags are given
//  3. Granular flags, then PG* environment variables, then pgcsv.yaml, then defaults
//
// The authentication method comes from AuthFlags, then pgcsv.yaml auth_method,
// then the presence of AZURE_* environment variables.
//
// Returns an error if BOTH --connection and granular flags are provided.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	authFlags *AuthFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgcsv.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if authFlags == nil {
		authFlags = &AuthFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/openskylocal\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d openskylocal\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			pgcsv.ErrInvalidConfig,
		)
	}
	if authFlags.selected() > 1 {
		return nil, fmt.Errorf("choose at most one of --aws, --azure, --google: %w", pgcsv.ErrInvalidConfig)
	}

	var cfg *pgcsv.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.connectionString() != "":
		cfg, err = resolveFromConnectionString(envVars.connectionString(), envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyAuth(cfg, authFlags, envVars, pc); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyAuth sets the authentication method and its parameters on cfg.
func applyAuth(cfg *pgcsv.ConnectionConfig, flags *AuthFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method, err := ParseAuthMethod(pc.AuthMethod)
	if err != nil {
		return err
	}

	switch {
	case flags.AWS:
		method = pgcsv.AuthMethodAWSIAM
	case flags.Azure:
		method = pgcsv.AuthMethodAzureEntraID
	case flags.Google:
		method = pgcsv.AuthMethodGoogleIAM
	case method == pgcsv.AuthMethodStandard && (flags.AzureTenantID != "" || flags.AzureClientID != "" || env.HasAzureCredentials()):
		method = pgcsv.AuthMethodAzureEntraID
	}
	cfg.AuthMethod = method

	switch method {
	case pgcsv.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, env.AWS_DEFAULT_REGION, pc.AWSRegion)
	case pgcsv.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case pgcsv.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	}
	return nil
}

// resolveFromConnectionString parses a connection string. PGSSLMODE fills in a
// missing sslmode, following libpq behavior.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*pgcsv.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", errors.Join(err, pgcsv.ErrInvalidConfig))
	}

	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(envVars.PGSSLMODE, "prefer")
	}
	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables and pgcsv.yaml, in that order of precedence.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	pc config.ConnectionConfig,
) (*pgcsv.ConnectionConfig, error) {
	cfg := &pgcsv.ConnectionConfig{
		AuthMethod:       pgcsv.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, pgcsv.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	// Username falls back to the current OS user, as psql does.
	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
