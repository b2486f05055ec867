package pgcsv

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes a connection pool to PostgreSQL.
// Each authentication method provides its own implementation.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
