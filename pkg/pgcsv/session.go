package pgcsv

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session encapsulates the single database connection used by a load run.
//
// Session manages the lifecycle of database resources (pool and connection)
// and ensures proper cleanup through a single Close() method.
//
// Thread-Safety: NOT safe for concurrent use. The ingestor loads files
// strictly one at a time over Conn().
//
// Example usage:
//
//	session, err := sessionManager.OpenSession(ctx, connConfig, runID)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
type Session struct {
	runID  uuid.UUID
	pool   *pgxpool.Pool
	conn   *pgxpool.Conn
	closer func() error
}

// NewSession creates a new Session instance.
// closer, if non-nil, runs after the pool is closed (e.g. to release a Cloud SQL dialer).
//
// Panics if pool or conn is nil (programmer error - SessionManager
// should never create a Session with nil resources).
func NewSession(runID uuid.UUID, pool *pgxpool.Pool, conn *pgxpool.Conn, closer func() error) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}

	return &Session{
		runID:  runID,
		pool:   pool,
		conn:   conn,
		closer: closer,
	}
}

// RunID identifies the load run this session belongs to.
func (s *Session) RunID() uuid.UUID {
	return s.runID
}

// Conn returns the acquired connection every COPY is issued on.
func (s *Session) Conn() *pgxpool.Conn {
	return s.conn
}

// Close releases all resources associated with the session.
// This method is idempotent and safe to call multiple times.
//
// Resource cleanup order:
//  1. Release the acquired connection back to the pool
//  2. Close the connection pool
//  3. Run the connector's closer, if any
func (s *Session) Close() error {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	if s.closer != nil {
		closer := s.closer
		s.closer = nil
		return closer()
	}

	return nil
}
