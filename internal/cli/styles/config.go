package styles

import (
	"strings"
)

// RenderConfig renders the effective configuration with its file path.
func RenderConfig(t *Theme, path string, rendered []byte) string {
	var b strings.Builder
	b.WriteString(t.BoxHeader.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(t.Subtle.Render(path))
	b.WriteString("\n\n")
	b.WriteString(t.Normal.Render(strings.TrimRight(string(rendered), "\n")))
	return t.Box.Render(b.String()) + "\n"
}

// RenderError renders an error line.
func RenderError(t *Theme, err error) string {
	return t.ErrorStyle.Render("✗ "+err.Error()) + "\n"
}
