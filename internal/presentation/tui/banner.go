package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the gridplan banner followed by the version.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	lines := []struct {
		text, color string
	}{
		{"   ____      _     _       _             ", "#818cf8"},
		{"  / ___|_ __(_) __| |_ __ | | __ _ _ __  ", "#a78bfa"},
		{" | |  _| '__| |/ _` | '_ \\| |/ _` | '_ \\ ", "#c084fc"},
		{" | |_| | |  | | (_| | |_) | | (_| | | | |", "#e879f9"},
		{"  \\____|_|  |_|\\__,_| .__/|_|\\__,_|_| |_|", "#f472b6"},
		{"                    |_|                  ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, p.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
