package pgcsv

import "context"

// Ingestor is the main interface for loading a directory tree of CSV files.
type Ingestor interface {
	// Ingest opens one session, loads every candidate file in order and commits
	// each one. The first failing file stops the run. The session is always closed.
	Ingest(ctx context.Context, config IngestConfig) (IngestSummary, error)
}

// PlannedLoad pairs a candidate file with the COPY statement that would load it.
type PlannedLoad struct {
	File      CandidateFile
	Statement string
}

// Planner lists what a run would load without touching the database.
type Planner interface {
	Plan(config IngestConfig) ([]PlannedLoad, error)
}
