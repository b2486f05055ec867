package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type closingConnector struct {
	mockConnector
	closed int
}

func (c *closingConnector) Close() error {
	c.closed++
	return nil
}

func connectorFactoryFor(c pgcsv.Connector) func(*pgcsv.ConnectionConfig) (pgcsv.Connector, error) {
	return func(*pgcsv.ConnectionConfig) (pgcsv.Connector, error) { return c, nil }
}

type mockFileScanner struct {
	files   []pgcsv.CandidateFile
	err     error
	calls   int
	gotRoot string
}

func (m *mockFileScanner) Discover(root, _, _ string) ([]pgcsv.CandidateFile, error) {
	m.calls++
	m.gotRoot = root
	return m.files, m.err
}

// mockFileLoader succeeds with rows[path] rows unless path is in failOn.
type mockFileLoader struct {
	rows   map[string]int64
	failOn map[string]error
	loaded []string
}

func (m *mockFileLoader) Statement(spec pgcsv.CopySpec, file pgcsv.CandidateFile) (string, error) {
	if err := m.failOn[file.Path]; err != nil {
		return "", err
	}
	return "COPY " + spec.Table + " FROM STDIN -- " + file.Name, nil
}

func (m *mockFileLoader) LoadFile(_ context.Context, _ *pgxpool.Conn, _ pgcsv.CopySpec, file pgcsv.CandidateFile) (pgcsv.LoadResult, error) {
	m.loaded = append(m.loaded, file.Path)
	if err := m.failOn[file.Path]; err != nil {
		return pgcsv.LoadResult{}, err
	}
	return pgcsv.LoadResult{File: file, RowsAffected: m.rows[file.Path]}, nil
}

// recordingLogger keeps non-verbose messages in order; errors are also kept separately.
type recordingLogger struct {
	messages []string
	errors   []string
}

func (r *recordingLogger) Verbose(_ string, _ ...interface{}) {}
func (r *recordingLogger) Info(format string, args ...interface{}) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Success(format string, args ...interface{}) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.messages = append(r.messages, msg)
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) withPrefix(prefix string) []string {
	var out []string
	for _, m := range r.messages {
		if strings.HasPrefix(m, prefix) {
			out = append(out, m)
		}
	}
	return out
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Success(_ string, _ ...interface{}) {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}

var errBadRow = errors.New("ERROR: extra data after last expected column")

func candidate(dir, name string) pgcsv.CandidateFile {
	return pgcsv.CandidateFile{
		Path:      "/data/" + dir + "/" + name,
		Name:      name,
		Directory: dir,
	}
}
