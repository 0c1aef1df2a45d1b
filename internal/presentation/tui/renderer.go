package tui

import (
	"github.com/charmbracelet/glamour"
)

// RenderInstructions renders a lesson's markdown instructions for the
// terminal. Rendering is best-effort: if glamour cannot build a renderer or
// chokes on the document, the raw markdown comes back (trailing newline
// included) so instructions are never silently dropped.
func RenderInstructions(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return markdown + "\n"
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown + "\n"
	}
	return out
}
