package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is assumed when the output is not a terminal.
const DefaultWidth = 100

// Profile picks the color profile for f. Non-terminals and noColor get Ascii.
func Profile(f *os.File, noColor bool) termenv.Profile {
	if noColor || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// Width returns the terminal width of f, or DefaultWidth.
func Width(f *os.File) int {
	if !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
