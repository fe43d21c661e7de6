package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects a light or dark background automatically; "notty" renders
// plain text for pipes and tests.
func NewRenderer(style string) func(string) (string, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return func(markdown string) (string, error) { return "", err }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
