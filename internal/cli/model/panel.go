// Package model contains the Bubble Tea models of the linkmark CLI.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/linkmark/internal/application/highlighter"
	"github.com/bnema/linkmark/internal/cli/styles"
	"github.com/bnema/linkmark/internal/infrastructure/config"
)

const (
	statusDuration  = 3 * time.Second
	refreshInterval = 500 * time.Millisecond

	delayStep    = 10
	throttleStep = 50
)

// Sender dispatches control messages to the active session.
type Sender interface {
	Send(ctx context.Context, req highlighter.Request) (highlighter.Response, error)
}

// PanelModel is the settings panel of a live highlighting session.
type PanelModel struct {
	ctx    context.Context
	sender Sender
	save   func(context.Context) error
	title  string

	theme *styles.Theme
	keys  styles.PanelKeyMap
	help  help.Model

	enabled bool
	config  *highlighter.ConfigDTO
	stats   *highlighter.StatsDTO
	perf    *highlighter.PerformanceDTO

	status    string
	statusErr bool
	statusSeq int
	width     int
}

// NewPanelModel creates the panel. save persists the live performance
// settings; it may be nil.
func NewPanelModel(ctx context.Context, theme *styles.Theme, sender Sender, title string, save func(context.Context) error) PanelModel {
	return PanelModel{
		ctx:    ctx,
		sender: sender,
		save:   save,
		title:  title,
		theme:  theme,
		keys:   styles.DefaultPanelKeyMap(),
		help:   styles.NewStyledHelp(theme),
		width:  80,
	}
}

// snapshotMsg carries a getConfig response.
type snapshotMsg struct {
	resp highlighter.Response
	err  error
}

// actionMsg reports the outcome of a control action.
type actionMsg struct {
	label string
	err   error
}

type refreshTickMsg struct{}

type clearStatusMsg struct{ seq int }

// StatusMsg shows text on the status line; hosts send it with
// tea.Program.Send, e.g. after a config file reload.
type StatusMsg struct {
	Text string
	Err  bool
}

// Init implements tea.Model.
func (m PanelModel) Init() tea.Cmd {
	return tea.Batch(m.fetch, tickRefresh())
}

func tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m PanelModel) fetch() tea.Msg {
	resp, err := m.sender.Send(m.ctx, highlighter.Request{Action: highlighter.ActionGetConfig})
	return snapshotMsg{resp: resp, err: err}
}

func (m PanelModel) send(label string, req highlighter.Request) tea.Cmd {
	return func() tea.Msg {
		_, err := m.sender.Send(m.ctx, req)
		return actionMsg{label: label, err: err}
	}
}

func (m PanelModel) sendPerformance(label string, dto highlighter.PerformanceSettingsDTO) tea.Cmd {
	payload, err := json.Marshal(dto)
	if err != nil {
		return func() tea.Msg { return actionMsg{label: label, err: err} }
	}
	return m.send(label, highlighter.Request{Action: highlighter.ActionUpdatePerformance, Settings: payload})
}

// Update implements tea.Model.
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		if msg.err != nil {
			// The host replaces the session after in-page navigation;
			// keep showing the last snapshot until the next one lands.
			return m, nil
		}
		if msg.resp.Enabled != nil {
			m.enabled = *msg.resp.Enabled
		}
		m.config = msg.resp.Config
		m.stats = msg.resp.Stats
		m.perf = msg.resp.Performance

	case refreshTickMsg:
		return m, tea.Batch(m.fetch, tickRefresh())

	case actionMsg:
		if msg.err != nil {
			return m.setStatus(fmt.Sprintf("%s failed: %v", msg.label, msg.err), true)
		}
		var cmd tea.Cmd
		m, cmd = m.setStatus(msg.label, false)
		return m, tea.Batch(cmd, m.fetch)

	case StatusMsg:
		var cmd tea.Cmd
		m, cmd = m.setStatus(msg.Text, msg.Err)
		return m, tea.Batch(cmd, m.fetch)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
	}
	return m, nil
}

func (m PanelModel) setStatus(text string, isErr bool) (PanelModel, tea.Cmd) {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m PanelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		next := !m.enabled
		label := "Highlighting disabled"
		if next {
			label = "Highlighting enabled"
		}
		return m, m.send(label, highlighter.Request{Action: highlighter.ActionToggleHighlighting, Enabled: &next})

	case key.Matches(msg, m.keys.Refresh):
		return m, m.send("Highlights refreshed", highlighter.Request{Action: highlighter.ActionRefresh})

	case key.Matches(msg, m.keys.ClearCache):
		return m, m.send("Cache cleared", highlighter.Request{Action: highlighter.ActionClearCache})

	case key.Matches(msg, m.keys.Save):
		if m.save == nil {
			return m.setStatus("Saving is not available", true)
		}
		return m, func() tea.Msg {
			return actionMsg{label: "Settings saved", err: m.save(m.ctx)}
		}
	}

	if m.config == nil {
		return m, nil
	}
	return m.handlePerformanceKey(msg)
}

func (m PanelModel) handlePerformanceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.config
	var dto highlighter.PerformanceSettingsDTO

	switch {
	case key.Matches(msg, m.keys.Adaptive):
		v := !c.AdaptivePerformance
		dto.AdaptivePerformance = &v
	case key.Matches(msg, m.keys.Throttle):
		v := !c.ThrottleDynamicContent
		dto.ThrottleDynamicContent = &v
	case key.Matches(msg, m.keys.BatchUp):
		v := c.MaxLinksPerBatch + 1
		dto.MaxLinksPerBatch = &v
	case key.Matches(msg, m.keys.BatchDown):
		v := c.MaxLinksPerBatch - 1
		if v < 1 {
			return m.setStatus("Batch size must be a positive number", true)
		}
		dto.MaxLinksPerBatch = &v
	case key.Matches(msg, m.keys.DelayUp):
		v := c.ProcessingDelay + delayStep
		dto.ProcessingDelay = &v
	case key.Matches(msg, m.keys.DelayDown):
		v := c.ProcessingDelay - delayStep
		if v < 0 {
			return m.setStatus("Processing delay must be a positive number", true)
		}
		dto.ProcessingDelay = &v
	case key.Matches(msg, m.keys.ThrottleUp):
		v := c.ThrottleDelay + throttleStep
		dto.ThrottleDelay = &v
	case key.Matches(msg, m.keys.ThrottleDown):
		v := c.ThrottleDelay - throttleStep
		if err := config.ValidateThrottleDelay(int(v)); err != nil {
			return m.setStatus(capitalize(err.Error()), true)
		}
		dto.ThrottleDelay = &v
	default:
		return m, nil
	}
	return m, m.sendPerformance("Performance settings updated", dto)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// View implements tea.Model.
func (m PanelModel) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("linkmark"))
	if m.title != "" {
		b.WriteString(" ")
		b.WriteString(t.Subtle.Render(m.title))
	}
	b.WriteString("\n\n")

	if m.config == nil {
		b.WriteString(t.Subtle.Render("Waiting for session…"))
		b.WriteString("\n")
	} else {
		m.viewSettings(&b)
		b.WriteString("\n")
		m.viewStats(&b)
	}

	b.WriteString("\n")
	switch {
	case m.status == "":
		b.WriteString("\n")
	case m.statusErr:
		b.WriteString(t.ErrorStyle.Render(m.status))
		b.WriteString("\n")
	default:
		b.WriteString(t.SuccessStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m PanelModel) viewSettings(b *strings.Builder) {
	t := m.theme
	c := m.config

	state := t.BadgeMuted.Render("off")
	if m.enabled {
		state = t.Badge.Render("on")
	}
	row(b, t, "Highlighting", state)
	row(b, t, "Batch size", fmt.Sprintf("%d links", c.MaxLinksPerBatch))
	row(b, t, "Processing delay", fmt.Sprintf("%dms", c.ProcessingDelay))
	row(b, t, "Adaptive", onOff(c.AdaptivePerformance))
	row(b, t, "Throttle dynamic", onOff(c.ThrottleDynamicContent))
	row(b, t, "Throttle delay", fmt.Sprintf("%dms", c.ThrottleDelay))
}

func (m PanelModel) viewStats(b *strings.Builder) {
	t := m.theme
	if m.stats != nil {
		s := m.stats
		row(b, t, "Processed links", fmt.Sprintf("%d", s.ProcessedLinks))
		row(b, t, "Cache", fmt.Sprintf("%d entries, %d pending", s.CacheSize, s.PendingQueries))
		row(b, t, "Effective batch", fmt.Sprintf("%d links every %dms", s.MaxLinksPerBatch, s.ProcessingDelay))
		row(b, t, "Throttled updates", fmt.Sprintf("%d", s.ThrottledUpdates))
	}
	if m.perf != nil {
		p := m.perf
		row(b, t, "DOM updates", fmt.Sprintf("%d", p.DOMUpdates))
		row(b, t, "Batch time", fmt.Sprintf("last %.1fms, avg %.1fms", p.LastProcessTime, p.AverageProcessingTime))
	}
}

func row(b *strings.Builder, t *styles.Theme, label, value string) {
	b.WriteString(t.Subtle.Width(20).Render(label))
	b.WriteString(t.Normal.Render(value))
	b.WriteString("\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
