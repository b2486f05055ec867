package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgcsv/internal/checksum"
	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Loader issues one COPY per candidate file.
// Loader is safe for concurrent use; the connection passed to LoadFile is not.
type Loader struct {
	fsProvider filesystem.FileSystemProvider
}

// NewLoader creates a new loader reading files from the OS filesystem.
func NewLoader() *Loader {
	return &Loader{fsProvider: filesystem.NewOSFileSystem()}
}

// NewLoaderWithFS creates a loader reading client-mode files through fsProvider.
// Panics if fsProvider is nil.
func NewLoaderWithFS(fsProvider filesystem.FileSystemProvider) *Loader {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Loader{fsProvider: fsProvider}
}

// Statement renders the COPY statement for file.
func (l *Loader) Statement(spec pgcsv.CopySpec, file pgcsv.CandidateFile) (string, error) {
	target, err := copyTarget(spec.Table, spec.Columns)
	if err != nil {
		return "", err
	}

	var source string
	switch spec.Mode {
	case pgcsv.LoadModeClient:
		source = "STDIN"
	case pgcsv.LoadModeServer:
		if err := validateServerPath(file.Path); err != nil {
			return "", err
		}
		source = quoteLiteral(file.Path)
	default:
		return "", fmt.Errorf("unknown load mode %v: %w", spec.Mode, pgcsv.ErrInvalidConfig)
	}

	switch {
	case spec.Delimiter == 0, spec.Delimiter > 0x7f,
		spec.Delimiter == '\n', spec.Delimiter == '\r', spec.Delimiter == '"':
		return "", fmt.Errorf("invalid delimiter %q: %w", spec.Delimiter, pgcsv.ErrInvalidConfig)
	}

	header := "false"
	if spec.Header {
		header = "true"
	}

	return fmt.Sprintf("COPY %s FROM %s WITH (FORMAT csv, DELIMITER %s, HEADER %s)",
		target, source, quoteLiteral(string(spec.Delimiter)), header), nil
}

// LoadFile runs COPY for file in its own transaction and commits it.
func (l *Loader) LoadFile(ctx context.Context, conn *pgxpool.Conn, spec pgcsv.CopySpec, file pgcsv.CandidateFile) (pgcsv.LoadResult, error) {
	sql, err := l.Statement(spec, file)
	if err != nil {
		return pgcsv.LoadResult{}, err
	}

	start := time.Now()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return pgcsv.LoadResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op once committed
	defer tx.Rollback(ctx) //nolint:errcheck

	var tag pgconn.CommandTag
	var streamed *checksum.HashingReader
	switch spec.Mode {
	case pgcsv.LoadModeServer:
		tag, err = tx.Exec(ctx, sql)
	default:
		tag, streamed, err = l.copyFromFile(ctx, tx, sql, file.Path)
	}
	if err != nil {
		return pgcsv.LoadResult{}, describeCopyError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return pgcsv.LoadResult{}, fmt.Errorf("failed to commit: %w", err)
	}

	result := pgcsv.LoadResult{
		File:         file,
		RowsAffected: tag.RowsAffected(),
		Duration:     time.Since(start),
	}
	if streamed != nil {
		result.Checksum = streamed.Sum()
		result.BytesStreamed = streamed.BytesRead()
	}
	return result, nil
}

// copyFromFile streams path over COPY FROM STDIN. The returned reader holds
// the digest and byte count of what was sent.
func (l *Loader) copyFromFile(ctx context.Context, tx pgx.Tx, sql, path string) (pgconn.CommandTag, *checksum.HashingReader, error) {
	r, err := l.fsProvider.OpenFile(path)
	if err != nil {
		return pgconn.CommandTag{}, nil, err
	}
	defer r.Close()

	hr := checksum.NewHashingReader(r)
	tag, err := tx.Conn().PgConn().CopyFrom(ctx, hr, sql)
	if err != nil {
		return tag, nil, err
	}
	return tag, hr, nil
}

// copyTarget renders `"schema"."table"("col1", "col2", ...)`.
func copyTarget(table string, columns []string) (string, error) {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("table %q has too many name parts: %w", table, pgcsv.ErrInvalidConfig)
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return "", fmt.Errorf("table %q has an empty name part: %w", table, pgcsv.ErrInvalidConfig)
		}
	}

	if len(columns) == 0 {
		return "", fmt.Errorf("column list is empty: %w", pgcsv.ErrInvalidConfig)
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(c)
		if c == "" {
			return "", fmt.Errorf("column %d has an empty name: %w", i+1, pgcsv.ErrInvalidConfig)
		}
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}

	return pgx.Identifier(parts).Sanitize() + "(" + strings.Join(quoted, ", ") + ")", nil
}

func validateServerPath(path string) error {
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a NUL byte: %w", pgcsv.ErrInvalidConfig)
	}
	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "/") {
		return fmt.Errorf("server-side COPY requires an absolute path, got %q: %w", path, pgcsv.ErrInvalidConfig)
	}
	return nil
}

// quoteLiteral renders s as a standard-conforming SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// describeCopyError keeps the server's message and adds the CSV line context
// ("COPY flights, line 3") when PostgreSQL reports one.
func describeCopyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	msg := pgErr.Message
	if pgErr.Where != "" {
		msg += " (" + pgErr.Where + ")"
	}
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	return fmt.Errorf("%s [SQLSTATE %s]: %w", msg, pgErr.Code, err)
}
