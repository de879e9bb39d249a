package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/linkmark/internal/application/highlighter"
	"github.com/bnema/linkmark/internal/cli/styles"
)

type fakeSender struct {
	requests []highlighter.Request
	err      error
}

func (f *fakeSender) Send(_ context.Context, req highlighter.Request) (highlighter.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return highlighter.Response{Error: f.err.Error()}, f.err
	}
	return highlighter.Response{Success: true}, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedPanel(t *testing.T, sender *fakeSender) PanelModel {
	t.Helper()
	m := NewPanelModel(context.Background(), styles.NewTheme(nil), sender, "page.html", nil)

	enabled := true
	updated, _ := m.Update(snapshotMsg{resp: highlighter.Response{
		Success: true,
		Enabled: &enabled,
		Config: &highlighter.ConfigDTO{
			Enabled:                true,
			ProcessingDelay:        50,
			MaxLinksPerBatch:       5,
			AdaptivePerformance:    true,
			ThrottleDynamicContent: true,
			ThrottleDelay:          50,
		},
		Stats:       &highlighter.StatsDTO{ProcessedLinks: 12, CacheSize: 4},
		Performance: &highlighter.PerformanceDTO{DOMUpdates: 12, LastProcessTime: 1.5},
	}})
	return updated.(PanelModel)
}

func press(t *testing.T, m PanelModel, msg tea.KeyMsg) (PanelModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(PanelModel), cmd
}

func TestPanelModel_ToggleSendsExplicitState(t *testing.T) {
	sender := &fakeSender{}
	m := loadedPanel(t, sender)

	_, cmd := press(t, m, runes("t"))
	require.NotNil(t, cmd)
	msg := cmd()

	require.Len(t, sender.requests, 1)
	req := sender.requests[0]
	assert.Equal(t, highlighter.ActionToggleHighlighting, req.Action)
	require.NotNil(t, req.Enabled)
	assert.False(t, *req.Enabled)
	assert.Equal(t, actionMsg{label: "Highlighting disabled"}, msg)
}

func TestPanelModel_PerformanceKeys(t *testing.T) {
	sender := &fakeSender{}
	m := loadedPanel(t, sender)

	_, cmd := press(t, m, runes("+"))
	require.NotNil(t, cmd)
	cmd()

	_, cmd = press(t, m, runes("]"))
	require.NotNil(t, cmd)
	cmd()

	_, cmd = press(t, m, runes("a"))
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, sender.requests, 3)
	var settings []highlighter.PerformanceSettingsDTO
	for _, req := range sender.requests {
		assert.Equal(t, highlighter.ActionUpdatePerformance, req.Action)
		var dto highlighter.PerformanceSettingsDTO
		require.NoError(t, json.Unmarshal(req.Settings, &dto))
		settings = append(settings, dto)
	}

	require.NotNil(t, settings[0].MaxLinksPerBatch)
	assert.Equal(t, 6, *settings[0].MaxLinksPerBatch)
	assert.Nil(t, settings[0].ProcessingDelay)

	require.NotNil(t, settings[1].ProcessingDelay)
	assert.Equal(t, int64(60), *settings[1].ProcessingDelay)

	require.NotNil(t, settings[2].AdaptivePerformance)
	assert.False(t, *settings[2].AdaptivePerformance)
}

func TestPanelModel_RejectsThrottleBelowMinimum(t *testing.T) {
	sender := &fakeSender{}
	m := loadedPanel(t, sender)

	m, cmd := press(t, m, runes("<"))
	require.NotNil(t, cmd, "status auto-dismiss tick")
	assert.Empty(t, sender.requests)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "at least 50ms")
}

func TestPanelModel_StatusAutoDismiss(t *testing.T) {
	m := loadedPanel(t, &fakeSender{})

	updated, _ := m.Update(actionMsg{label: "Cache cleared"})
	m = updated.(PanelModel)
	assert.Equal(t, "Cache cleared", m.status)
	first := m.statusSeq

	updated, _ = m.Update(actionMsg{label: "Refresh", err: errors.New("session not running")})
	m = updated.(PanelModel)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Refresh failed")

	// a stale dismiss from the first status keeps the newer one
	updated, _ = m.Update(clearStatusMsg{seq: first})
	m = updated.(PanelModel)
	assert.NotEmpty(t, m.status)

	updated, _ = m.Update(clearStatusMsg{seq: m.statusSeq})
	m = updated.(PanelModel)
	assert.Empty(t, m.status)
	assert.False(t, m.statusErr)
}

func TestPanelModel_SaveWithoutSaver(t *testing.T) {
	m := loadedPanel(t, &fakeSender{})

	m, _ = press(t, m, runes("s"))
	assert.True(t, m.statusErr)
}

func TestPanelModel_SaveCallsSaver(t *testing.T) {
	saved := 0
	m := NewPanelModel(context.Background(), styles.NewTheme(nil), &fakeSender{}, "", func(context.Context) error {
		saved++
		return nil
	})

	_, cmd := press(t, m, runes("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, actionMsg{label: "Settings saved"}, cmd())
	assert.Equal(t, 1, saved)
}

func TestPanelModel_PerformanceKeysNeedConfig(t *testing.T) {
	sender := &fakeSender{}
	m := NewPanelModel(context.Background(), styles.NewTheme(nil), sender, "", nil)

	_, cmd := press(t, m, runes("+"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Waiting for session")
}

func TestPanelModel_View(t *testing.T) {
	m := loadedPanel(t, &fakeSender{})
	view := m.View()

	assert.Contains(t, view, "page.html")
	assert.Contains(t, view, "Batch size")
	assert.Contains(t, view, "5 links")
	assert.Contains(t, view, "Processed links")
	assert.Contains(t, view, "last 1.5ms")
}

func TestPanelModel_Quit(t *testing.T) {
	m := loadedPanel(t, &fakeSender{})

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestPanelModel_FetchErrorKeepsSnapshot(t *testing.T) {
	m := loadedPanel(t, &fakeSender{})

	updated, _ := m.Update(snapshotMsg{err: highlighter.ErrNotRunning})
	m = updated.(PanelModel)
	require.NotNil(t, m.config)
	assert.Equal(t, 5, m.config.MaxLinksPerBatch)
}
