package pgcsv_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

func validConfig() pgcsv.IngestConfig {
	return pgcsv.IngestConfig{
		SourcePath:       "./states",
		ConnectionString: "postgresql://localhost:5432/openskylocal",
	}.WithDefaults()
}

func TestIngestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*pgcsv.IngestConfig)
		wantError bool
	}{
		{"valid defaults", func(c *pgcsv.IngestConfig) {}, false},
		{"explicit connection instead of string", func(c *pgcsv.IngestConfig) {
			c.ConnectionString = ""
			c.Connection = &pgcsv.ConnectionConfig{Host: "localhost", Port: 5432}
		}, false},
		{"missing source path", func(c *pgcsv.IngestConfig) { c.SourcePath = "" }, true},
		{"missing connection", func(c *pgcsv.IngestConfig) { c.ConnectionString = "" }, true},
		{"negative timeout", func(c *pgcsv.IngestConfig) { c.Timeout = -time.Second }, true},
		{"empty table", func(c *pgcsv.IngestConfig) { c.Table = "" }, true},
		{"no columns", func(c *pgcsv.IngestConfig) { c.Columns = nil }, true},
		{"blank column", func(c *pgcsv.IngestConfig) { c.Columns = []string{"et", " "} }, true},
		{"duplicate column", func(c *pgcsv.IngestConfig) { c.Columns = []string{"et", "lat", "et"} }, true},
		{"newline delimiter", func(c *pgcsv.IngestConfig) { c.Delimiter = '\n' }, true},
		{"quote delimiter", func(c *pgcsv.IngestConfig) { c.Delimiter = '"' }, true},
		{"multibyte delimiter", func(c *pgcsv.IngestConfig) { c.Delimiter = '§' }, true},
		{"tab delimiter", func(c *pgcsv.IngestConfig) { c.Delimiter = '\t' }, false},
		{"unknown mode", func(c *pgcsv.IngestConfig) { c.Mode = pgcsv.LoadMode(7) }, true},
		{"server mode", func(c *pgcsv.IngestConfig) { c.Mode = pgcsv.LoadModeServer }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if (err != nil) != tt.wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, pgcsv.ErrInvalidConfig) {
				t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestIngestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg := pgcsv.IngestConfig{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors for empty config")
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("expected a joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n < 2 {
		t.Errorf("expected several validation errors, got %d: %v", n, err)
	}
}

func TestIngestConfig_ValidateLoadOptionsNeedsNoConnection(t *testing.T) {
	cfg := pgcsv.IngestConfig{SourcePath: "./states"}.WithDefaults()
	if err := cfg.ValidateLoadOptions(); err != nil {
		t.Errorf("ValidateLoadOptions() = %v, want nil", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should still require a connection")
	}
}

func TestIngestConfig_WithDefaults(t *testing.T) {
	cfg := pgcsv.IngestConfig{}.WithDefaults()

	if cfg.Table != "flights" {
		t.Errorf("Table = %q, want flights", cfg.Table)
	}
	if len(cfg.Columns) != 16 || cfg.Columns[0] != "et" || cfg.Columns[15] != "lastcontact" {
		t.Errorf("unexpected default columns: %v", cfg.Columns)
	}
	if cfg.Delimiter != ',' {
		t.Errorf("Delimiter = %q, want ','", cfg.Delimiter)
	}
	if cfg.DirSuffix != ".csv" || cfg.FileSuffix != ".csv" {
		t.Errorf("unexpected suffixes %q %q", cfg.DirSuffix, cfg.FileSuffix)
	}

	cfg.Columns[0] = "mutated"
	if pgcsv.DefaultColumns[0] != "et" {
		t.Error("WithDefaults must copy DefaultColumns")
	}
}

func TestIngestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := pgcsv.IngestConfig{
		Table:     "staging.events",
		Columns:   []string{"id"},
		Delimiter: ';',
		DirSuffix: ".batch",
	}.WithDefaults()

	if cfg.Table != "staging.events" || len(cfg.Columns) != 1 || cfg.Delimiter != ';' || cfg.DirSuffix != ".batch" {
		t.Errorf("explicit values were overwritten: %+v", cfg)
	}
	if cfg.FileSuffix != ".csv" {
		t.Errorf("FileSuffix = %q, want .csv", cfg.FileSuffix)
	}
}

func TestParseLoadMode(t *testing.T) {
	tests := []struct {
		in      string
		want    pgcsv.LoadMode
		wantErr bool
	}{
		{"", pgcsv.LoadModeClient, false},
		{"client", pgcsv.LoadModeClient, false},
		{"STDIN", pgcsv.LoadModeClient, false},
		{" server ", pgcsv.LoadModeServer, false},
		{"file", pgcsv.LoadModeServer, false},
		{"remote", pgcsv.LoadModeClient, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := pgcsv.ParseLoadMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLoadMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, pgcsv.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLoadMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadMode_String(t *testing.T) {
	if pgcsv.LoadModeClient.String() != "client" || pgcsv.LoadModeServer.String() != "server" {
		t.Error("unexpected mode names")
	}
	if got := pgcsv.LoadMode(9).String(); got != "Unknown(9)" {
		t.Errorf("LoadMode(9).String() = %q", got)
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method pgcsv.AuthMethod
		want   string
	}{
		{pgcsv.AuthMethodStandard, "Standard"},
		{pgcsv.AuthMethodAWSIAM, "AWS IAM"},
		{pgcsv.AuthMethodGoogleIAM, "Google IAM"},
		{pgcsv.AuthMethodAzureEntraID, "Azure Entra ID"},
		{pgcsv.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
		if tt.method.IsValid() == (tt.want == "Unknown(99)") {
			t.Errorf("AuthMethod(%d).IsValid() mismatch", tt.method)
		}
	}
}

func TestIngestSummary_TotalRows(t *testing.T) {
	s := pgcsv.IngestSummary{Results: []pgcsv.LoadResult{
		{RowsAffected: 3},
		{RowsAffected: 0},
		{RowsAffected: 4},
	}}
	if got := s.TotalRows(); got != 7 {
		t.Errorf("TotalRows() = %d, want 7", got)
	}
	if got := (pgcsv.IngestSummary{}).TotalRows(); got != 0 {
		t.Errorf("empty TotalRows() = %d, want 0", got)
	}
}

func TestCopySpecFromConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = pgcsv.LoadModeServer

	spec := pgcsv.CopySpecFromConfig(cfg)
	if spec.Table != cfg.Table || spec.Delimiter != cfg.Delimiter || !spec.Header || spec.Mode != pgcsv.LoadModeServer {
		t.Errorf("unexpected spec: %+v", spec)
	}
	if len(spec.Columns) != len(cfg.Columns) {
		t.Errorf("columns not carried over: %v", spec.Columns)
	}
}

func TestCopySpecFromConfig_HeaderDefault(t *testing.T) {
	if spec := pgcsv.CopySpecFromConfig(pgcsv.IngestConfig{}); !spec.Header {
		t.Error("zero-value IngestConfig should treat the first line as a header")
	}
	if spec := pgcsv.CopySpecFromConfig(pgcsv.IngestConfig{NoHeader: true}); spec.Header {
		t.Error("NoHeader should disable the header row")
	}
}
