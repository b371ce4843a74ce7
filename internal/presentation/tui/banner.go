package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the lama banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{" _                       ", "#38bdf8"},
		{"| | __ _ _ __ ___   __ _ ", "#22d3ee"},
		{"| |/ _` | '_ ` _ \\ / _` |", "#2dd4bf"},
		{"| | (_| | | | | | | (_| |", "#34d399"},
		{"|_|\\__,_|_| |_| |_|\\__,_|", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  material workbench "+version).Faint())
	fmt.Fprintln(w)
}
