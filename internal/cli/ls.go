package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgcsv/internal/checksum"
	"github.com/vvka-141/pgcsv/internal/db"
	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/internal/files/loader"
	"github.com/vvka-141/pgcsv/internal/files/scanner"
	"github.com/vvka-141/pgcsv/internal/logging"
	"github.com/vvka-141/pgcsv/internal/services"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

var lsCmd = &cobra.Command{
	Use:   "ls <root_dir>",
	Short: "List the files load would process, in load order",
	Long: `Ls performs discovery exactly as load does and prints each candidate
path on stdout, one per line, without connecting to a database.

With --sql, the COPY statement load would issue for each file is printed
instead. With --checksum, each path is prefixed by the SHA-256 of its
content in sha256sum format; load --verbose reports the same digest for
every file it streams.

Examples:
  pgcsv ls ./states
  pgcsv ls ./states --checksum > manifest.sha256
  pgcsv ls ./states --sql --mode server`,
	Args: RequireRootDir,
	RunE: runLs,
}

var (
	lsOptFlags loadFlagValues
	lsShowSQL  bool
	lsChecksum bool
)

func init() {
	rootCmd.AddCommand(lsCmd)

	registerLoadFlags(lsCmd, &lsOptFlags)
	lsCmd.Flags().BoolVar(&lsShowSQL, "sql", false,
		"Print the COPY statement for each file instead of its path")
	lsCmd.Flags().BoolVar(&lsChecksum, "checksum", false,
		"Prefix each path with the SHA-256 of the file content")
}

func runLs(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return err
	}

	cfg, err := buildIngestConfig(cmd, args[0], lsOptFlags, projectCfg)
	if err != nil {
		return err
	}

	planner := services.NewIngestService(
		db.NewConnector,
		scanner.NewScanner(),
		loader.NewLoader(),
		logging.NewConsoleLogger(verbose),
	)

	plan, err := planner.Plan(cfg)
	if err != nil {
		return err
	}

	if lsShowSQL && lsChecksum {
		return fmt.Errorf("--sql and --checksum cannot be combined: %w", pgcsv.ErrInvalidConfig)
	}

	fsProvider := filesystem.NewOSFileSystem()
	calc := checksum.New()

	out := cmd.OutOrStdout()
	for _, p := range plan {
		switch {
		case lsShowSQL:
			fmt.Fprintf(out, "%s;\n", p.Statement)
		case lsChecksum:
			sum, err := fileChecksum(fsProvider, calc, p.File.Path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", sum, p.File.Path)
		default:
			fmt.Fprintln(out, p.File.Path)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] %d files would be loaded into %s\n", len(plan), cfg.WithDefaults().Table)
	}
	return nil
}

func fileChecksum(fsProvider filesystem.FileSystemProvider, calc checksum.Calculator, path string) (string, error) {
	r, err := fsProvider.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	sum, _, err := calc.CalculateReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return sum, nil
}
