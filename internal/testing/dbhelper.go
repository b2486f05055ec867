package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgcsv/internal/db"
	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/internal/files/loader"
	"github.com/vvka-141/pgcsv/internal/files/scanner"
	"github.com/vvka-141/pgcsv/internal/services"
	"github.com/vvka-141/pgcsv/internal/testinfra"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

var (
	testContainerOnce sync.Once
	testContainer     *testinfra.PostgresContainer
	testContainerErr  error
)

func getOrStartTestContainer() (*testinfra.PostgresContainer, error) {
	testContainerOnce.Do(func() {
		testContainer, testContainerErr = testinfra.StartSimplePostgres(context.Background())
	})
	return testContainer, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: PGCSV_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("PGCSV_TEST_CONN"); connString != "" {
		return connString
	}

	ctr, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("PGCSV_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return ctr.ConnString
}

// RequireContainer returns the shared testcontainer, skipping when an external
// database is configured via PGCSV_TEST_CONN or Docker is unavailable.
// Server-mode tests need it to place files where the server can read them.
func RequireContainer(t *testing.T) *testinfra.PostgresContainer {
	t.Helper()

	SkipIfShort(t)
	if os.Getenv("PGCSV_TEST_CONN") != "" {
		t.Skip("PGCSV_TEST_CONN points at an external server; container file access unavailable")
	}
	ctr, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("Docker unavailable: %v", err)
	}
	return ctr
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// NewTestIngestor creates an IngestService wired with the real connector,
// scanner and loader over the OS filesystem.
func NewTestIngestor(t *testing.T, logger pgcsv.Logger) *services.IngestService {
	t.Helper()

	return services.NewIngestService(
		db.NewConnector,
		scanner.NewScanner(),
		loader.NewLoader(),
		logger,
	)
}

// NewTestIngestorWithFS creates an IngestService whose scanner and loader read
// from fsProvider. Only client mode can load from a non-OS filesystem.
func NewTestIngestorWithFS(t *testing.T, fsProvider filesystem.FileSystemProvider, logger pgcsv.Logger) *services.IngestService {
	t.Helper()

	return services.NewIngestService(
		db.NewConnector,
		scanner.NewScannerWithFS(fsProvider),
		loader.NewLoaderWithFS(fsProvider),
		logger,
	)
}

// GetTestPool creates a connection pool for assertions.
// The pool is automatically closed when the test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// CreateFlightsTable creates a uniquely named table with the given columns,
// all typed text, and drops it when the test completes. Returns the table name.
// A nil columns slice uses pgcsv.DefaultColumns.
func CreateFlightsTable(t *testing.T, pool *pgxpool.Pool, columns []string) string {
	t.Helper()

	if columns == nil {
		columns = pgcsv.DefaultColumns
	}
	table := "flights_" + uuid.NewString()[:8]

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " text"
	}
	ident := pgx.Identifier{table}.Sanitize()

	ctx := context.Background()
	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(defs, ", "))); err != nil {
		t.Fatalf("Failed to create table %s: %v", table, err)
	}
	t.Cleanup(func() {
		if _, err := pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+ident); err != nil {
			t.Logf("Warning: Failed to drop table %s: %v", table, err)
		}
	})

	return table
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int64 {
	t.Helper()

	var n int64
	err := pool.QueryRow(context.Background(), "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}
