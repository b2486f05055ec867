package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/vvka-141/pgcsv/internal/cli"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// panicEnv forces a panic before any command runs, so the exit-3 path can be
// exercised from outside the process.
const panicEnv = "PGCSV_TEST_PANIC"

func main() {
	os.Exit(run(os.Stderr))
}

// run executes the CLI and maps its outcome to a process exit code.
// A panic anywhere below is reported on stderr and exits with ExitPanic.
func run(stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "pgcsv: internal error: %v\n%s\n", r, debug.Stack())
			code = pgcsv.ExitPanic
		}
	}()

	if os.Getenv(panicEnv) == "1" {
		panic(panicEnv + " is set")
	}

	return pgcsv.ExitCodeForError(cli.Execute())
}
