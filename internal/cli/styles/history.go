package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/recency"
)

const maxTitleWidth = 60

// RenderHistory renders entries as a list, each prefixed with the recency
// category its links would be highlighted with.
func RenderHistory(t *Theme, entries []*entity.HistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return t.Subtle.Render("No history yet.") + "\n"
	}

	var b strings.Builder
	for _, e := range entries {
		visit := entity.VisitData{TotalVisits: int(e.VisitCount), LastVisit: e.LastVisited}
		cat := recency.Classify(visit, now)

		title := e.Title
		if title == "" {
			title = e.URL
		}

		b.WriteString(t.CategoryBadge(cat))
		b.WriteString(" ")
		b.WriteString(t.Title.Render(truncate(title, maxTitleWidth)))
		b.WriteString("\n")
		b.WriteString("        ")
		b.WriteString(t.Subtle.Render(e.URL))
		b.WriteString(" ")
		b.WriteString(t.VisitBadge(e.VisitCount))
		b.WriteString(" ")
		b.WriteString(t.BadgeMuted.Render(RelativeTime(e.LastVisited, now)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderStats renders the history totals.
func RenderStats(t *Theme, stats *entity.HistoryStats) string {
	rows := []struct {
		label string
		value int64
	}{
		{"URLs", stats.TotalEntries},
		{"Visits", stats.TotalVisits},
		{"Days with visits", stats.UniqueDays},
	}

	var b strings.Builder
	b.WriteString(t.BoxHeader.Render("History"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(t.Subtle.Width(18).Render(r.label))
		b.WriteString(t.Highlight.Render(fmt.Sprintf("%d", r.value)))
		b.WriteString("\n")
	}
	return t.Box.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// RenderCleared renders the outcome of a history clear.
func RenderCleared(t *Theme, deleted int64, all bool) string {
	if all {
		return t.SuccessStyle.Render("✓ History cleared") + "\n"
	}
	return t.SuccessStyle.Render(fmt.Sprintf("✓ Removed %d entries", deleted)) + "\n"
}

// VisitBadge renders a visit count badge.
func (t *Theme) VisitBadge(count int64) string {
	text := fmt.Sprintf("%d visits", count)
	if count == 1 {
		text = "1 visit"
	}
	return t.BadgeMuted.Render(text)
}

// RelativeTime formats tm relative to now.
func RelativeTime(tm, now time.Time) string {
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour") + " ago"
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 30*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day") + " ago"
	default:
		return tm.Format("Jan 2, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
