package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// SessionManager opens the single database session a load run works on.
//
// SessionManager is safe for concurrent use as long as the injected
// connectorFactory and logger are.
type SessionManager struct {
	connectorFactory func(*pgcsv.ConnectionConfig) (pgcsv.Connector, error)
	logger           pgcsv.Logger
}

// NewSessionManager creates a new SessionManager with all dependencies injected.
//
// Panics if any dependency is nil. Panics indicate programmer error
// (incorrect dependency injection setup).
func NewSessionManager(
	connectorFactory func(*pgcsv.ConnectionConfig) (pgcsv.Connector, error),
	logger pgcsv.Logger,
) *SessionManager {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &SessionManager{
		connectorFactory: connectorFactory,
		logger:           logger,
	}
}

// OpenSession connects to the target database and acquires one connection.
//
// Any failure after the connector is created is returned wrapped in
// pgcsv.ErrConnectionFailed. The caller is responsible for closing the
// session: defer session.Close()
func (sm *SessionManager) OpenSession(
	ctx context.Context,
	connConfig *pgcsv.ConnectionConfig,
	runID uuid.UUID,
) (*pgcsv.Session, error) {
	sm.logger.Verbose("Connecting to %s:%d/%s as %q (%s)",
		connConfig.Host, connConfig.Port, connConfig.Database, connConfig.Username, connConfig.AuthMethod)

	connector, err := sm.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	closer := connectorCloser(connector)

	pool, err := connector.Connect(ctx)
	if err != nil {
		closer() //nolint:errcheck
		if !errors.Is(err, pgcsv.ErrConnectionFailed) {
			err = fmt.Errorf("%w: %w", pgcsv.ErrConnectionFailed, err)
		}
		return nil, fmt.Errorf("failed to connect to database %q: %w", connConfig.Database, err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		closer() //nolint:errcheck
		return nil, fmt.Errorf("%w: failed to acquire connection: %w", pgcsv.ErrConnectionFailed, err)
	}

	sm.logger.Success("Opened database successfully")
	return pgcsv.NewSession(runID, pool, conn, closer), nil
}

// connectorCloser returns the connector's Close method when it holds
// resources beyond the pool (the Cloud SQL dialer), else a no-op.
func connectorCloser(connector pgcsv.Connector) func() error {
	if c, ok := connector.(io.Closer); ok {
		return c.Close
	}
	return func() error { return nil }
}
