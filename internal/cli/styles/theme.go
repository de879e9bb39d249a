// Package styles provides the lipgloss theme and renderers of the linkmark CLI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/infrastructure/config"
)

// Palette holds the base colors of the terminal UI.
type Palette struct {
	Background     string
	Surface        string
	SurfaceVariant string
	Text           string
	Muted          string
	Accent         string
	Border         string
}

// DefaultDarkPalette returns hardcoded dark theme colors.
func DefaultDarkPalette() Palette {
	return Palette{
		Background:     "#0a0a0b",
		Surface:        "#1a1a1b",
		SurfaceVariant: "#2d2d2d",
		Text:           "#ffffff",
		Muted:          "#909090",
		Accent:         "#4ade80",
		Border:         "#333333",
	}
}

// Theme holds lipgloss colors and styles.
type Theme struct {
	Background     lipgloss.Color
	Surface        lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	// Categories maps each recency category to the highlight color the
	// pages use for it.
	Categories map[entity.Category]lipgloss.Color

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Box       lipgloss.Style
	BoxHeader lipgloss.Style
}

// NewTheme creates a Theme whose category colors follow the highlight
// configuration.
func NewTheme(cfg *config.Config) *Theme {
	colors := config.DefaultConfig().Highlight.Colors
	if cfg != nil {
		colors = cfg.Highlight.Colors
	}
	return NewThemeFromPalette(DefaultDarkPalette(), colors)
}

// NewThemeFromPalette creates a Theme from a palette and category colors.
func NewThemeFromPalette(p Palette, colors config.ColorsConfig) *Theme {
	t := &Theme{
		Background:     lipgloss.Color(p.Background),
		Surface:        lipgloss.Color(p.Surface),
		SurfaceVariant: lipgloss.Color(p.SurfaceVariant),
		Text:           lipgloss.Color(p.Text),
		Muted:          lipgloss.Color(p.Muted),
		Accent:         lipgloss.Color(p.Accent),
		Border:         lipgloss.Color(p.Border),

		Error:   lipgloss.Color("#ef4444"),
		Warning: lipgloss.Color("#f59e0b"),
		Success: lipgloss.Color(p.Accent),

		Categories: map[entity.Category]lipgloss.Color{
			entity.CategoryToday: lipgloss.Color(colors.Today),
			entity.CategoryWeek:  lipgloss.Color(colors.Week),
			entity.CategoryMonth: lipgloss.Color(colors.Month),
			entity.CategoryOlder: lipgloss.Color(colors.Older),
			entity.CategoryNever: lipgloss.Color(colors.Never),
		},
	}

	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Bold(true)

	t.Normal = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Subtle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Highlight = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.Badge = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Padding(0, 1)

	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.SurfaceVariant).
		Padding(0, 1)

	t.HelpKey = lipgloss.NewStyle().
		Foreground(t.Accent)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.BoxHeader = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		MarginBottom(1)
}

// CategoryBadge renders a category name on its highlight color.
func (t *Theme) CategoryBadge(cat entity.Category) string {
	color, ok := t.Categories[cat]
	if !ok {
		return t.BadgeMuted.Render(string(cat))
	}
	return lipgloss.NewStyle().
		Foreground(t.Background).
		Background(color).
		Padding(0, 1).
		Width(categoryBadgeWidth).
		Render(string(cat))
}

// categoryBadgeWidth fits the longest category name plus padding.
const categoryBadgeWidth = 7
