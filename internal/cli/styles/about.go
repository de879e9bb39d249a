package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/linkmark/internal/domain/build"
	"github.com/bnema/linkmark/internal/domain/entity"
)

// RenderAbout renders build info next to a strip of the category colors.
func RenderAbout(t *Theme, info build.Info, configPath, dbPath string) string {
	var swatch []string
	for _, cat := range entity.Categories() {
		swatch = append(swatch, lipgloss.NewStyle().Foreground(t.Categories[cat]).Render("██"))
	}
	logo := lipgloss.NewStyle().MarginTop(1).MarginLeft(2).Render(strings.Join(swatch, "\n"))

	key := t.Subtle.Width(10)
	line := func(k, v string) string {
		return fmt.Sprintf("%s %s", key.Render(k), t.Highlight.Render(v))
	}
	lines := strings.Join([]string{
		t.Title.Render("linkmark"),
		line("Version", info.Version),
		line("Commit", info.Commit),
		line("Built", info.BuildDate),
		line("Go", info.GoVersion),
		"",
		line("Config", configPath),
		line("History", dbPath),
		t.Subtle.Render(build.RepoURL()),
	}, "\n")

	return lipgloss.JoinHorizontal(lipgloss.Top, logo, "   ", lines) + "\n"
}
