package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// usageError keeps the message readable while matching pgcsv.ErrUsage.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) Unwrap() error { return pgcsv.ErrUsage }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// RequireRootDir validates that exactly one root_dir argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireRootDir(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return newUsageError(`missing required argument: <root_dir>

Usage: %s

Example:
  %s ./data/states -d openskylocal`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return newUsageError("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
