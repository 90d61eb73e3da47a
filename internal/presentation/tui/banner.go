package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Warm gradient (Rose/Amber)
	lines := []struct {
		text  string
		color string
	}{
		{"  ____  _         _ _     _   ", "#fb7185"},
		{" / ___|| |_ _   _| (_)___| |_ ", "#f472b6"},
		{" \\___ \\| __| | | | | / __| __|", "#e879f9"},
		{"  ___) | |_| |_| | | \\__ \\ |_ ", "#c084fc"},
		{" |____/ \\__|\\__, |_|_|___/\\__|", "#a78bfa"},
		{"            |___/              ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
