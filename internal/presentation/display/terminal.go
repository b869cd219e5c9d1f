// Package display holds terminal capability helpers shared by the formatters.
package display

import (
	"os"

	"golang.org/x/term"
)

const defaultWidth = 120

// TerminalWidth reports the current terminal width in columns. Non-terminal
// stdout (pipes, redirects) gets a fixed default so output stays stable.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
