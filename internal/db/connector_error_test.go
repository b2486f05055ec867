package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		host         string
		port         int
		database     string
		wantContains string
	}{
		{
			name:         "connection refused",
			errMsg:       "dial tcp 127.0.0.1:5432: connection refused",
			host:         "127.0.0.1",
			port:         5432,
			database:     "mydb",
			wantContains: "connection refused to 127.0.0.1:5432",
		},
		{
			name:         "actively refused (Windows)",
			errMsg:       "dial tcp 127.0.0.1:5432: connectex: No connection could be made because the target machine actively refused it",
			host:         "127.0.0.1",
			port:         5432,
			database:     "mydb",
			wantContains: "connection refused to 127.0.0.1:5432",
		},
		{
			name:         "no such host",
			errMsg:       "dial tcp: lookup badhost.example.com: no such host",
			host:         "badhost.example.com",
			port:         5432,
			database:     "mydb",
			wantContains: `cannot resolve host "badhost.example.com"`,
		},
		{
			name:         "no host variant",
			errMsg:       "dial tcp: lookup missing: no host",
			host:         "missing",
			port:         5432,
			database:     "mydb",
			wantContains: `cannot resolve host "missing"`,
		},
		{
			name:         "password auth failed",
			errMsg:       `password authentication failed for user "postgres"`,
			host:         "localhost",
			port:         5432,
			database:     "testdb",
			wantContains: `password authentication failed for database "testdb"`,
		},
		{
			name:         "database does not exist",
			errMsg:       `database "nope" does not exist`,
			host:         "localhost",
			port:         5432,
			database:     "nope",
			wantContains: `database "nope" does not exist`,
		},
		{
			name:         "timeout",
			errMsg:       "dial tcp 10.0.0.1:5432: i/o timeout",
			host:         "10.0.0.1",
			port:         5432,
			database:     "mydb",
			wantContains: "connection timed out to 10.0.0.1:5432",
		},
		{
			name:         "timed out variant",
			errMsg:       "context deadline exceeded (timed out)",
			host:         "slow.host",
			port:         5432,
			database:     "mydb",
			wantContains: "connection timed out to slow.host:5432",
		},
		{
			name:         "SSL error",
			errMsg:       "SSL is not enabled on the server",
			host:         "localhost",
			port:         5432,
			database:     "mydb",
			wantContains: "SSL/TLS connection error",
		},
		{
			name:         "TLS error",
			errMsg:       "tls: handshake failure",
			host:         "localhost",
			port:         5432,
			database:     "mydb",
			wantContains: "SSL/TLS connection error",
		},
		{
			name:         "too many connections",
			errMsg:       "FATAL: too many connections for role",
			host:         "localhost",
			port:         5432,
			database:     "busydb",
			wantContains: `too many connections to database "busydb"`,
		},
		{
			name:         "unknown error falls through to default",
			errMsg:       "something completely unexpected happened",
			host:         "localhost",
			port:         5432,
			database:     "mydb",
			wantContains: "failed to connect to database",
		},
		{
			name:         "case insensitive matching",
			errMsg:       "CONNECTION REFUSED by firewall",
			host:         "firewall.host",
			port:         5433,
			database:     "mydb",
			wantContains: "connection refused to firewall.host:5433",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalErr := errors.New(tt.errMsg)
			wrapped := wrapConnectionError(originalErr, tt.host, tt.port, tt.database)

			if !strings.Contains(wrapped.Error(), tt.wantContains) {
				t.Errorf("wrapConnectionError() = %q, want it to contain %q", wrapped.Error(), tt.wantContains)
			}

			// Verify original error is wrapped (unwrappable)
			if !errors.Is(wrapped, originalErr) {
				t.Error("wrapped error does not unwrap to original error")
			}

			// Verify ErrConnectionFailed sentinel is chained
			if !errors.Is(wrapped, pgcsv.ErrConnectionFailed) {
				t.Error("wrapped error does not chain pgcsv.ErrConnectionFailed")
			}
		})
	}
}

func TestNewConnector(t *testing.T) {
	t.Run("standard", func(t *testing.T) {
		c, err := NewConnector(&pgcsv.ConnectionConfig{Host: "localhost", Port: 5432, AuthMethod: pgcsv.AuthMethodStandard})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := c.(*StandardConnector); !ok {
			t.Errorf("got %T, want *StandardConnector", c)
		}
	})

	t.Run("aws without region", func(t *testing.T) {
		_, err := NewConnector(&pgcsv.ConnectionConfig{Host: "db.rds.amazonaws.com", Port: 5432, Username: "loader", AuthMethod: pgcsv.AuthMethodAWSIAM})
		if !errors.Is(err, pgcsv.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("google without instance", func(t *testing.T) {
		_, err := NewConnector(&pgcsv.ConnectionConfig{Username: "loader@proj.iam", AuthMethod: pgcsv.AuthMethodGoogleIAM})
		if !errors.Is(err, pgcsv.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("google without username", func(t *testing.T) {
		_, err := NewConnector(&pgcsv.ConnectionConfig{GoogleInstance: "proj:eu:inst", AuthMethod: pgcsv.AuthMethodGoogleIAM})
		if !errors.Is(err, pgcsv.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := NewConnector(&pgcsv.ConnectionConfig{AuthMethod: pgcsv.AuthMethod(99)})
		if !errors.Is(err, pgcsv.ErrUnsupportedAuthMethod) {
			t.Errorf("expected ErrUnsupportedAuthMethod, got %v", err)
		}
	})
}

func TestConfigurePool_ApplicationName(t *testing.T) {
	poolConfig, err := pgxpool.ParseConfig("postgresql://localhost:5432/openskylocal")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	configurePool(poolConfig, "pgcsv/run-1")

	if got := poolConfig.ConnConfig.RuntimeParams["application_name"]; got != "pgcsv/run-1" {
		t.Errorf("application_name = %q, want pgcsv/run-1", got)
	}
	if poolConfig.MaxConns != DefaultMaxConns {
		t.Errorf("MaxConns = %d, want %d", poolConfig.MaxConns, DefaultMaxConns)
	}

	explicit, err := pgxpool.ParseConfig("postgresql://localhost:5432/openskylocal?application_name=mine")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	configurePool(explicit, "pgcsv/run-1")
	if got := explicit.ConnConfig.RuntimeParams["application_name"]; got != "mine" {
		t.Errorf("application_name = %q, want explicit value preserved", got)
	}
}
