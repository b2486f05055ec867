package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vvka-141/pgcsv/internal/tui"
)

// ConsoleLogger writes log messages to stderr.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	styled  bool
	out     io.Writer
	mu      sync.Mutex
}

// NewConsoleLogger creates a new ConsoleLogger writing to stderr.
// If verbose is true, Verbose() calls will produce output.
// Styling is enabled only when stderr is a terminal (see tui.DetectMode).
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
		styled:  tui.IsStyled(),
	}
}

// NewWriterLogger creates an unstyled ConsoleLogger writing to w.
func NewWriterLogger(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{verbose: verbose, out: w}
}

func (l *ConsoleLogger) writer() io.Writer {
	if l.out != nil {
		return l.out
	}
	return os.Stderr
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.writer(), prefix+msg+"\n")
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	prefix := "[VERBOSE] "
	if l.styled {
		prefix = tui.MutedStyle.Render("[VERBOSE]") + " "
	}
	l.write(prefix, format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

// Success logs a completed step. Styled output gets a green check mark.
func (l *ConsoleLogger) Success(format string, args ...interface{}) {
	prefix := ""
	if l.styled {
		prefix = tui.SuccessStyle.Render(tui.SymbolCheck) + " "
	}
	l.write(prefix, format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	prefix := "[ERROR] "
	if l.styled {
		prefix = tui.ErrorStyle.Render(tui.SymbolCross+" [ERROR]") + " "
	}
	l.write(prefix, format, args)
}
