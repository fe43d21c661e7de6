package tui

import (
	"fmt"
	"io"

	"github.com/bots-against-war/moduli/pkg/display"
	"github.com/muesli/termenv"
)

// PrintBanner writes the product name, each letter in a node header color, and the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	letters := []string{"s", "t", "u", "d", "i", "o"}
	fmt.Fprintln(w)
	fmt.Fprint(w, "  ")
	for i, l := range letters {
		key := display.NodeTypeKeys[i%len(display.NodeTypeKeys)]
		color := p.Color(display.HeaderColorHex(display.NodeHue[key]))
		fmt.Fprint(w, p.String(l).Foreground(color).Bold())
	}
	fmt.Fprintf(w, "  %s\n\n", version)
}

// NodeHeader renders a node title on its editor header color.
func NodeHeader(key display.NodeTypeKey, title string) string {
	p := termenv.EnvColorProfile()
	hue, ok := display.NodeHue[key]
	if !ok {
		hue = display.Hue{White: true}
	}
	return p.String(" " + title + " ").
		Background(p.Color(display.HeaderColorHex(hue))).
		Foreground(p.Color("#000000")).
		Bold().
		String()
}
