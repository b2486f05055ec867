package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgcsv",
	Short: "Bulk-load CSV directory trees into PostgreSQL",
	Long: `pgcsv discovers CSV files laid out as <root>/<batch>.csv/<file>.csv and
loads each one into a single PostgreSQL table with COPY.

Files are loaded one at a time, in name order, each in its own transaction.
The first failure stops the run; files already loaded stay committed.
There are no retries: running the same tree twice loads it twice.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  13 - COPY failed for a file
  14 - Root directory not found`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host, so --help gets no shorthand.
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgcsv")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
