package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how pgcsv renders console output.
type Mode int

const (
	// ModePlain is used for CI/CD pipelines, scripts, and redirected output.
	ModePlain Mode = iota
	// ModeStyled is used when a human is watching stderr in a terminal.
	ModeStyled
)

// DetectMode determines whether notices on stderr should be styled.
//
// Returns ModePlain if:
//   - PGCSV_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (https://no-color.org)
//   - stderr is not a terminal
func DetectMode() Mode {
	if os.Getenv("PGCSV_NON_INTERACTIVE") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}

	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModePlain
	}

	return ModeStyled
}

// IsStyled is a convenience function that returns true if output should be styled.
func IsStyled() bool {
	return DetectMode() == ModeStyled
}
