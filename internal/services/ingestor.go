package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgcsv/internal/db"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// IngestService implements pgcsv.Ingestor and pgcsv.Planner.
// Thread-Safety: NOT safe for concurrent Ingest() calls on the same instance.
type IngestService struct {
	sessions *SessionManager
	scanner  pgcsv.FileScanner
	loader   pgcsv.FileLoader
	logger   pgcsv.Logger
}

// NewIngestService creates a new IngestService with all dependencies injected.
//
// Panics on nil dependencies: these are programmer errors that should fail
// at startup. Runtime conditions (bad config, unreachable server, missing
// directory) are returned as errors.
func NewIngestService(
	connectorFactory func(*pgcsv.ConnectionConfig) (pgcsv.Connector, error),
	scanner pgcsv.FileScanner,
	loader pgcsv.FileLoader,
	logger pgcsv.Logger,
) *IngestService {
	if scanner == nil {
		panic("scanner cannot be nil")
	}
	if loader == nil {
		panic("loader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &IngestService{
		sessions: NewSessionManager(connectorFactory, logger),
		scanner:  scanner,
		loader:   loader,
		logger:   logger,
	}
}

// Ingest loads every candidate file under config.SourcePath into the target table.
//
// The connection is opened before discovery; a connection failure ends the run
// without touching the filesystem. Once connected, the session is closed on
// every path and "Closed connection" is reported. The returned summary is
// populated as far as the run got, including on error.
func (s *IngestService) Ingest(ctx context.Context, config pgcsv.IngestConfig) (pgcsv.IngestSummary, error) {
	config = config.WithDefaults()
	summary := pgcsv.IngestSummary{RunID: uuid.New()}

	if err := config.Validate(); err != nil {
		return summary, fmt.Errorf("invalid configuration: %w", err)
	}

	connConfig, err := s.connectionConfig(config, summary.RunID)
	if err != nil {
		return summary, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	s.logger.Verbose("Run %s: loading %s into %s (%s mode)", summary.RunID, config.SourcePath, config.Table, config.Mode)

	session, err := s.sessions.OpenSession(ctx, connConfig, summary.RunID)
	if err != nil {
		s.logger.Error("%v", err)
		return summary, err
	}
	defer s.closeSession(session)

	files, err := s.scanner.Discover(config.SourcePath, config.DirSuffix, config.FileSuffix)
	if err != nil {
		s.logger.Error("Failed to read source directory: %v", err)
		return summary, fmt.Errorf("file discovery failed: %w", err)
	}
	summary.Discovered = len(files)
	s.logger.Verbose("Found %d files to load", len(files))

	results, failed, err := s.loadAll(ctx, session.Conn(), pgcsv.CopySpecFromConfig(config), files)
	summary.Results = results
	if err != nil {
		summary.FailedFile = failed
		return summary, err
	}

	s.logger.Success("Load complete: %d files, %d rows", len(results), summary.TotalRows())
	return summary, nil
}

// loadAll loads files strictly in order and stops at the first failure,
// returning the committed results and the path of the failing file.
func (s *IngestService) loadAll(
	ctx context.Context,
	conn *pgxpool.Conn,
	spec pgcsv.CopySpec,
	files []pgcsv.CandidateFile,
) ([]pgcsv.LoadResult, string, error) {
	results := make([]pgcsv.LoadResult, 0, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			s.logger.Error("Run cancelled before %s: %v", file.Path, err)
			return results, file.Path, fmt.Errorf("%w: cancelled before %s: %w", pgcsv.ErrLoadFailed, file.Path, err)
		}

		s.logger.Verbose("[%d/%d] %s (%d bytes)", i+1, len(files), file.Path, file.SizeBytes)

		result, err := s.loader.LoadFile(ctx, conn, spec, file)
		if err != nil {
			s.logger.Error("Failed to load %s: %v", file.Path, err)
			return results, file.Path, fmt.Errorf("%w: %s: %w", pgcsv.ErrLoadFailed, file.Path, err)
		}

		results = append(results, result)
		s.logger.Success("Added csv: %s (%d rows)", file.Path, result.RowsAffected)
		if result.Checksum != "" {
			s.logger.Verbose("Committed %s in %v (%d bytes streamed, sha256 %s)",
				file.Name, result.Duration.Round(time.Millisecond), result.BytesStreamed, result.Checksum)
		} else {
			s.logger.Verbose("Committed %s in %v", file.Name, result.Duration.Round(time.Millisecond))
		}
	}

	return results, "", nil
}

// Plan discovers candidate files and renders the COPY statement for each
// without opening a connection.
func (s *IngestService) Plan(config pgcsv.IngestConfig) ([]pgcsv.PlannedLoad, error) {
	config = config.WithDefaults()
	if err := config.ValidateLoadOptions(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	files, err := s.scanner.Discover(config.SourcePath, config.DirSuffix, config.FileSuffix)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}

	spec := pgcsv.CopySpecFromConfig(config)
	plan := make([]pgcsv.PlannedLoad, 0, len(files))
	for _, file := range files {
		stmt, err := s.loader.Statement(spec, file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		plan = append(plan, pgcsv.PlannedLoad{File: file, Statement: stmt})
	}
	return plan, nil
}

// connectionConfig returns a private copy of the connection settings with the
// run ID in application_name so the session is identifiable in pg_stat_activity.
func (s *IngestService) connectionConfig(config pgcsv.IngestConfig, runID uuid.UUID) (*pgcsv.ConnectionConfig, error) {
	var connConfig pgcsv.ConnectionConfig
	if config.Connection != nil {
		connConfig = *config.Connection
	} else {
		parsed, err := db.ParseConnectionString(config.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection string: %w: %w", pgcsv.ErrInvalidConfig, err)
		}
		connConfig = *parsed
	}

	if connConfig.AppName == "" {
		connConfig.AppName = fmt.Sprintf("%s/%s", pgcsv.ApplicationName, runID.String()[:8])
	}
	return &connConfig, nil
}

func (s *IngestService) closeSession(session *pgcsv.Session) {
	s.logger.Verbose("Run %s: releasing connection", session.RunID())
	if err := session.Close(); err != nil {
		s.logger.Error("Failed to release connection resources: %v", err)
	}
	s.logger.Info("Closed connection")
}
