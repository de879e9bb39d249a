package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// PanelKeyMap defines keybindings for the highlighter settings panel.
type PanelKeyMap struct {
	Toggle       key.Binding
	Refresh      key.Binding
	ClearCache   key.Binding
	Adaptive     key.Binding
	Throttle     key.Binding
	BatchUp      key.Binding
	BatchDown    key.Binding
	DelayUp      key.Binding
	DelayDown    key.Binding
	ThrottleUp   key.Binding
	ThrottleDown key.Binding
	Save         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k PanelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Refresh, k.ClearCache, k.Save, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k PanelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Refresh, k.ClearCache},
		{k.BatchUp, k.BatchDown, k.DelayUp, k.DelayDown},
		{k.Adaptive, k.Throttle, k.ThrottleUp, k.ThrottleDown},
		{k.Save, k.Help, k.Quit},
	}
}

// DefaultPanelKeyMap returns the default panel keybindings.
func DefaultPanelKeyMap() PanelKeyMap {
	return PanelKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("t", " "),
			key.WithHelp("t", "toggle"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ClearCache: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear cache"),
		),
		Adaptive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "adaptive"),
		),
		Throttle: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "throttle dynamic"),
		),
		BatchUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "batch +1"),
		),
		BatchDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "batch -1"),
		),
		DelayUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "delay +10ms"),
		),
		DelayDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "delay -10ms"),
		),
		ThrottleUp: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "throttle +50ms"),
		),
		ThrottleDown: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "throttle -50ms"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
