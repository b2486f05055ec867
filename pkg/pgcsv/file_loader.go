package pgcsv

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CopySpec describes the COPY statement shape shared by every file of a run.
type CopySpec struct {
	Table     string
	Columns   []string
	Delimiter rune
	Header    bool
	Mode      LoadMode
}

// CopySpecFromConfig extracts the statement shape from an IngestConfig.
func CopySpecFromConfig(c IngestConfig) CopySpec {
	return CopySpec{
		Table:     c.Table,
		Columns:   c.Columns,
		Delimiter: c.Delimiter,
		Header:    !c.NoHeader,
		Mode:      c.Mode,
	}
}

// FileLoader bulk-loads one candidate file into the target table.
type FileLoader interface {
	// Statement renders the COPY statement that LoadFile would issue for file.
	Statement(spec CopySpec, file CandidateFile) (string, error)

	// LoadFile runs COPY for a single file inside its own transaction and commits it.
	// On error the transaction is rolled back and nothing from the file remains.
	LoadFile(ctx context.Context, conn *pgxpool.Conn, spec CopySpec, file CandidateFile) (LoadResult, error)
}
