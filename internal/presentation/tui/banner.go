package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Spiritual ASCII art banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"   ____        _      _ _               _ ", "#34d399"},
		{"  / ___| _ __ (_)_ __(_) |_ _   _  __ _| |", "#2dd4bf"},
		{"  \\___ \\| '_ \\| | '__| | __| | | |/ _` | |", "#22d3ee"},
		{"   ___) | |_) | | |  | | |_| |_| | (_| | |", "#38bdf8"},
		{"  |____/| .__/|_|_|  |_|\\__|\\__,_|\\__,_|_|", "#60a5fa"},
		{"        |_|                               ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
